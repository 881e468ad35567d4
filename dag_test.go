package cutter

import (
	"reflect"
	"strings"
	"testing"
)

func wangqiuDict(t *testing.T) *Dictionary {
	t.Helper()
	d := NewDictionary()
	src := "网 3000\n球 2053\n拍 1130\n卖 459\n会 150000\n网球 260\n网球拍 30\n球拍 165\n拍卖 34\n拍卖会 7\n"
	if err := d.LoadDict(strings.NewReader(src)); err != nil {
		t.Fatalf("LoadDict: %v", err)
	}
	return d
}

func TestBuildDAG(t *testing.T) {
	d := wangqiuDict(t)
	sentence := "网球拍卖会"
	table := buildCharTable(sentence)
	got := buildDAG(sentence, table, d)

	want := dag{
		0: {0, 1, 2},
		1: {1, 2},
		2: {2, 3, 4},
		3: {3},
		4: {4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildDAG(%q) = %v; want %v", sentence, got, want)
	}
}

func TestBuildDAGTotality(t *testing.T) {
	d := wangqiuDict(t)
	sentence := "网球拍卖会叛徒"
	table := buildCharTable(sentence)
	got := buildDAG(sentence, table, d)
	for k := 0; k < len(table); k++ {
		ends, ok := got[k]
		if !ok || len(ends) == 0 {
			t.Fatalf("ends(%d) is empty; DAG must be total", k)
		}
		for i, e := range ends {
			if e < k {
				t.Errorf("ends(%d)[%d] = %d < %d", k, i, e, k)
			}
			if i > 0 && ends[i-1] >= e {
				t.Errorf("ends(%d) is not strictly increasing: %v", k, ends)
			}
		}
	}
}

func TestCutAllTokens(t *testing.T) {
	d := wangqiuDict(t)
	sentence := "网球拍卖会"
	table := buildCharTable(sentence)
	dg := buildDAG(sentence, table, d)
	got := cutAllTokens(sentence, table, dg)

	want := []string{"网球", "网球拍", "球拍", "拍卖", "拍卖会"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cutAllTokens(%q) = %v; want %v", sentence, got, want)
	}
}

func TestSubstring(t *testing.T) {
	sentence := "网球拍卖会"
	table := buildCharTable(sentence)
	if got, want := substring(sentence, table, 0, 1), "网球"; got != want {
		t.Errorf("substring(0,1) = %q; want %q", got, want)
	}
	if got, want := substring(sentence, table, 4, 4), "会"; got != want {
		t.Errorf("substring(4,4) = %q; want %q", got, want)
	}
}
