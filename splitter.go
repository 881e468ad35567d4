package cutter

import (
	"regexp"
	"unicode"
)

// dictPredicate matches a maximal run of dictionary-eligible characters
// as defined by spec.md §4.6: Han ideographs U+4E00-U+9FD5, ASCII
// letters and digits, and the documented punctuation set `+#&._%-`. It
// is deliberately wider than the teacher's `zh` regex (which is
// Han-only), matching original_source/src/lib.rs's RE_HAN_DEFAULT.
var dictPredicate = regexp.MustCompile(`[\x{4E00}-\x{9FD5}a-zA-Z0-9+#&._%-]+`)

// block is one span produced by splitSentence: either a dictionary block
// (dict == true, eligible for DAG-based segmentation) or an other block.
type block struct {
	text string
	dict bool
}

// splitSentence partitions text into alternating dictionary/other blocks
// per spec.md §4.6. Spans are concatenation-equal to text and appear in
// original order.
func splitSentence(text string) []block {
	matches := dictPredicate.FindAllStringIndex(text, -1)
	blocks := make([]block, 0, len(matches)*2+1)

	pos := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > pos {
			blocks = append(blocks, block{text: text[pos:start], dict: false})
		}
		blocks = append(blocks, block{text: text[start:end], dict: true})
		pos = end
	}
	if pos < len(text) {
		blocks = append(blocks, block{text: text[pos:], dict: false})
	}
	return blocks
}

// splitOtherBlock implements spec.md §4.6's secondary pass over an
// "other" block: a maximal whitespace run (or a CRLF pair) becomes a
// single token; every other character is emitted individually.
func splitOtherBlock(text string) []string {
	tokens := make([]string, 0, len(text))
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if i+1 < len(runes) && runes[i] == '\r' && runes[i+1] == '\n' {
			j := i + 2
			for j < len(runes) && isWhitespaceRune(runes[j]) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
			continue
		}
		if isWhitespaceRune(runes[i]) {
			j := i + 1
			for j < len(runes) && isWhitespaceRune(runes[j]) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
			continue
		}
		tokens = append(tokens, string(runes[i]))
		i++
	}
	return tokens
}

func isWhitespaceRune(r rune) bool {
	return unicode.IsSpace(r)
}
