package cutter

import (
	"reflect"
	"testing"
)

func TestViterbiZhongChuLe(t *testing.T) {
	h, err := defaultHMM(-3.14e100)
	if err != nil {
		t.Fatalf("defaultHMM: %v", err)
	}
	run := []rune("中出了")
	got := h.viterbi(run)
	want := []bmesState{stateB, stateE, stateS}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("viterbi(%q) = %v; want %v", string(run), got, want)
	}
}

func TestViterbiSingleCharacterIsAlwaysS(t *testing.T) {
	h, err := defaultHMM(-3.14e100)
	if err != nil {
		t.Fatalf("defaultHMM: %v", err)
	}
	for _, ch := range []rune{'中', '出', '了', '一', '叛'} {
		got := h.viterbi([]rune{ch})
		if len(got) != 1 || got[0] != stateS {
			t.Errorf("viterbi(%q) = %v; want [S]", string(ch), got)
		}
	}
}

func TestExtractHMMTokens(t *testing.T) {
	run := "中出了"
	table := buildCharTable(run)
	got := extractHMMTokens(run, table, []bmesState{stateB, stateE, stateS})
	want := []string{"中出", "了"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractHMMTokens = %v; want %v", got, want)
	}
}

func TestExtractHMMTokensTrailingOpenToken(t *testing.T) {
	run := "中出"
	table := buildCharTable(run)
	got := extractHMMTokens(run, table, []bmesState{stateB, stateM})
	want := []string{"中出"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractHMMTokens = %v; want %v", got, want)
	}
}

func TestEmitFallsBackToFloor(t *testing.T) {
	h, err := defaultHMM(-3.14e100)
	if err != nil {
		t.Fatalf("defaultHMM: %v", err)
	}
	if got := h.emit(stateB, '龘'); got != h.floor {
		t.Errorf("emit(B, unseen char) = %v; want floor %v", got, h.floor)
	}
}
