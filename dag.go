package cutter

// charIndex pairs a rune with the byte offset it starts at in its
// original sentence. Every position in §3-§4 of spec.md is a character
// index into a []charIndex table, never a byte index; this is the table.
type charIndex struct {
	byteOffset int
	char       rune
}

// buildCharTable precomputes the (byte offset, char) table for sentence,
// the one allowed way (per spec.md §9) to keep inner loops working in
// character indices regardless of how many bytes each character takes.
func buildCharTable(sentence string) []charIndex {
	table := make([]charIndex, 0, len(sentence))
	for i, r := range sentence {
		table = append(table, charIndex{byteOffset: i, char: r})
	}
	return table
}

// substring materializes sentence[k..=e] (inclusive on both ends, in
// character indices) using a precomputed table.
func substring(sentence string, table []charIndex, k, e int) string {
	start := table[k].byteOffset
	var end int
	if e+1 < len(table) {
		end = table[e+1].byteOffset
	} else {
		end = len(sentence)
	}
	return sentence[start:end]
}

// dag maps each character start position to the ordered, ascending list
// of end positions at which a dictionary word beginning there ends
// (spec.md §3's DAG). A position with no dictionary-supported word
// starting there maps to the fallback singleton [k].
type dag map[int][]int

// buildDAG implements spec.md §4.2: for each start k, probe the
// dictionary with chars[k..=i] for increasing i as long as the
// dictionary contains that substring at all (sentinel or real); record i
// whenever the probed entry is a real word (freq > 0). Probing stops the
// moment a substring isn't a known prefix, which is exactly what dict.Get
// reports with found=false -- a sentinel entry (freq 0) and a real entry
// (freq > 0) both report found=true, letting the probe keep extending.
func buildDAG(sentence string, table []charIndex, dict *Dictionary) dag {
	n := len(table)
	d := make(dag, n)
	for k := 0; k < n; k++ {
		ends := make([]int, 0, 1)
		for i := k; i < n; i++ {
			freq, found := dict.Get(substring(sentence, table, k, i))
			if !found {
				dict.log.Debugf("dictionary probe left the trie early: start=%d end=%d", k, i)
				break
			}
			if freq > 0 {
				ends = append(ends, i)
			}
		}
		if len(ends) == 0 {
			ends = append(ends, k)
		}
		d[k] = ends
	}
	return d
}

// cutAllTokens implements the reference's cut_all_internal (see
// original_source/src/lib.rs): walk the DAG left to right. A
// single-element ends(k) is emitted as one token when k lies past the
// last emitted end; otherwise every e in ends(k) with e > k is emitted
// (so single-character words are skipped in that case). It is exposed through Segmenter.CutAll as a DAG-only
// oracle that never touches the Route Solver.
func cutAllTokens(sentence string, table []charIndex, d dag) []string {
	words := make([]string, 0, len(table))
	oldEnd := -1
	for k := 0; k < len(table); k++ {
		ends := d[k]
		if len(ends) == 1 && k > oldEnd {
			e := ends[0]
			words = append(words, substring(sentence, table, k, e))
			oldEnd = e
			continue
		}
		for _, e := range ends {
			if e > k {
				words = append(words, substring(sentence, table, k, e))
				oldEnd = e
			}
		}
	}
	return words
}
