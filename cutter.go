package cutter

import (
	_ "embed"
	"io"
	"strings"

	"github.com/Zubayear/ryushin/deque"
	"github.com/charmbracelet/log"
)

//go:embed data/dict_default.txt
var defaultDictText string

// Segmenter is the Segmentation Driver of spec.md §4.5: it owns a
// Dictionary and an HMM model and turns whole input strings into token
// slices, dispatching dictionary blocks through the DAG Builder, Route
// Solver and (optionally) the HMM Segmenter, and other blocks through
// the Sentence Splitter's secondary pass.
type Segmenter struct {
	dict *Dictionary
	hmm  *hmmModel
	cfg  Config
	log  *log.Logger
}

// New returns a Segmenter loaded with the embedded canonical dictionary
// and the embedded default HMM parameters, using cfg's tuning (or
// DefaultConfig's, if cfg is nil).
func New(cfg *Config) (*Segmenter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := NewDictionary()
	d.SetMinRealFrequency(cfg.Engine.MinRealFrequency)
	if err := d.LoadDict(strings.NewReader(defaultDictText)); err != nil {
		return nil, err
	}
	return fromDictionary(d, *cfg)
}

// FromDict builds a Segmenter from a caller-supplied dictionary stream
// instead of the embedded default, for callers with their own corpus.
func FromDict(r io.Reader, cfg *Config) (*Segmenter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := NewDictionary()
	d.SetMinRealFrequency(cfg.Engine.MinRealFrequency)
	if err := d.LoadDict(r); err != nil {
		return nil, err
	}
	return fromDictionary(d, *cfg)
}

func fromDictionary(d *Dictionary, cfg Config) (*Segmenter, error) {
	h, err := defaultHMM(cfg.Engine.EmissionFloor)
	if err != nil {
		return nil, err
	}
	return &Segmenter{dict: d, hmm: h, cfg: cfg, log: newLogger("cutter")}, nil
}

// AddWord inserts or grows a single dictionary entry at runtime, the
// jieba-go idiom for incrementally teaching the Segmenter new
// vocabulary (spec.md §4.1's insert, exposed at the driver level). A
// non-positive freq defers to Dictionary.SuggestFreq.
func (s *Segmenter) AddWord(word string, freq int) {
	s.dict.AddWord(word, freq)
}

// Cut segments sentence into tokens, per spec.md §4.5. useHMM selects
// whether unresolved runs of route-singleton characters inside
// dictionary blocks are further segmented by the HMM Segmenter or
// passed through per spec.md's "no-HMM" buffering rule.
func (s *Segmenter) Cut(sentence string, useHMM bool) []string {
	blocks := splitSentence(sentence)
	tokens := make([]string, 0, len(sentence))
	for _, b := range blocks {
		if b.dict {
			if useHMM {
				tokens = append(tokens, s.cutDictBlockHMM(b.text)...)
			} else {
				tokens = append(tokens, s.cutDictBlockNoHMM(b.text)...)
			}
		} else {
			tokens = append(tokens, splitOtherBlock(b.text)...)
		}
	}
	return tokens
}

// CutDefault calls Cut with the engine's own HMM preference
// (cfg.Engine.DefaultUseHMM), for callers that don't want to decide
// per call.
func (s *Segmenter) CutDefault(sentence string) []string {
	return s.Cut(sentence, s.cfg.Engine.DefaultUseHMM)
}

// CutAll exposes the DAG-only oracle of spec.md §12: the multi-character
// dictionary words the DAG finds at each position, plus single-character
// tokens at positions not already covered by an emitted word (see
// cutAllTokens), independent of the Route Solver or HMM. It is useful for debugging and for the
// "supersequence" property tests in cutter_test.go.
func (s *Segmenter) CutAll(sentence string) []string {
	tokens := make([]string, 0, len(sentence))
	for _, b := range splitSentence(sentence) {
		if !b.dict {
			tokens = append(tokens, splitOtherBlock(b.text)...)
			continue
		}
		table := buildCharTable(b.text)
		d := buildDAG(b.text, table, s.dict)
		tokens = append(tokens, cutAllTokens(b.text, table, d)...)
	}
	return tokens
}

// cutDictBlockNoHMM implements spec.md §4.5's no-HMM buffering rule,
// grounded on original_source/src/lib.rs's cut_dag_no_hmm: a
// route-singleton character is buffered only while it is ASCII
// alphanumeric, letting adjacent digits/letters fuse into one token
// (e.g. "abc" stays "abc" instead of becoming three single-rune
// tokens); any other route step flushes the buffer first.
func (s *Segmenter) cutDictBlockNoHMM(text string) []string {
	table := buildCharTable(text)
	d := buildDAG(text, table, s.dict)
	route := solveRoute(text, table, d, s.dict)

	tokens := make([]string, 0, len(table))
	buf := deque.NewDeque[rune]()
	x := 0
	for x < len(table) {
		y := route[x].end
		if y == x && isASCIIAlnum(table[x].char) {
			buf.OfferLast(table[x].char)
		} else {
			tokens = flushBuf(tokens, buf)
			tokens = append(tokens, substring(text, table, x, y))
		}
		x = y + 1
	}
	tokens = flushBuf(tokens, buf)
	return tokens
}

// cutDictBlockHMM implements spec.md §4.5's HMM buffering rule
// (original_source/src/lib.rs's cut_dag_hmm, not ericlingit/jieba-go's
// simpler cutZh): every route-singleton character is buffered
// regardless of character class. On a flush, a single-character buffer
// is emitted as-is; a longer buffer is handed to the HMM Segmenter only
// if the buffer as a whole is NOT itself a known dictionary entry --
// otherwise each of its characters is emitted individually, since the
// dictionary path already explains it better than a fresh HMM decode
// would.
func (s *Segmenter) cutDictBlockHMM(text string) []string {
	table := buildCharTable(text)
	d := buildDAG(text, table, s.dict)
	route := solveRoute(text, table, d, s.dict)

	tokens := make([]string, 0, len(table))
	buf := deque.NewDeque[rune]()
	x := 0
	for x < len(table) {
		y := route[x].end
		if y == x {
			buf.OfferLast(table[x].char)
		} else {
			tokens = s.flushHMMBuf(tokens, buf)
			tokens = append(tokens, substring(text, table, x, y))
		}
		x = y + 1
	}
	tokens = s.flushHMMBuf(tokens, buf)
	return tokens
}

func (s *Segmenter) flushHMMBuf(tokens []string, buf *deque.Deque[rune]) []string {
	if buf.IsEmpty() {
		return tokens
	}
	run := drainBuf(buf)
	if len(run) == 1 {
		return append(tokens, string(run))
	}
	word := string(run)
	if _, found := s.dict.Get(word); !found {
		wordTable := buildCharTable(word)
		states := s.hmm.viterbi(run)
		return append(tokens, extractHMMTokens(word, wordTable, states)...)
	}
	for _, r := range run {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func flushBuf(tokens []string, buf *deque.Deque[rune]) []string {
	if buf.IsEmpty() {
		return tokens
	}
	return append(tokens, string(drainBuf(buf)))
}

func drainBuf(buf *deque.Deque[rune]) []rune {
	out := make([]rune, 0, buf.Size())
	for !buf.IsEmpty() {
		r, _ := buf.PollFirst()
		out = append(out, r)
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
