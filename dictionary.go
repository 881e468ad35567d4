package cutter

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"
)

// Dictionary is the prefix-searchable word -> frequency store described
// in spec.md §4.1. It is backed by a patricia trie: a stored entry with a
// positive value is a real dictionary word; a stored entry with value 0
// is a sentinel, present only so HasPrefix can answer "yes, something
// continues past here" without a dedicated prefix-query API.
//
// After construction, reads (Get/HasPrefix/Total) may run concurrently
// with each other; a Load* call parses its input without the lock and
// then takes an exclusive lock while it applies the parsed records,
// matching spec.md §5's "forbids writes during reads"
// discipline.
type Dictionary struct {
	mu      sync.RWMutex
	trie    *patricia.Trie
	total   int
	minReal int
	log     *log.Logger
}

// NewDictionary returns an empty Dictionary, ready to accept Load* calls.
func NewDictionary() *Dictionary {
	return &Dictionary{
		trie: patricia.NewTrie(),
		log:  newLogger("dict"),
	}
}

// SetMinRealFrequency sets the minimum frequency a dictionary line must
// carry to be stored as a real word rather than demoted to a freq-0
// sentinel (EngineConfig.MinRealFrequency). It must be called before any
// Load*/AddTerm/AddWord call whose classification should honor it.
func (d *Dictionary) SetMinRealFrequency(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.minReal = n
}

type dictRecord struct {
	word string
	freq int
}

// LoadDict reads dictionary records from r, one per line, in the format
// documented in spec.md §6: "word SP freq (SP anything-ignored)*". Blank
// lines (including trailing ones) are skipped. A malformed line (missing
// frequency field, non-integer frequency, or a negative frequency) fails
// the whole call with a *BadDictionaryError and leaves the Dictionary
// exactly as it was before the call -- every line is parsed and
// validated before any of them are applied.
//
// Loading is additive: a second call merges by overwriting frequencies
// (the later record wins) and keeps adding the parsed frequency of every
// real-word line to Total, regardless of whether that line inserts a new
// word or overwrites an existing one.
func (d *Dictionary) LoadDict(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	records := make([]dictRecord, 0, 256)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		word, freq, ok, err := parseDictLine(scanner.Text(), lineNo)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		records = append(records, dictRecord{word: word, freq: freq})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, rec := range records {
		d.insertLocked(rec.word, rec.freq)
	}
	d.log.Infof("loaded dictionary: %d words, total %d", len(records), d.total)
	return nil
}

// LoadDictFile memory-maps path and loads it through LoadDict, avoiding a
// full read of the file into a []byte for the large dictionaries spec.md
// §1 describes. The mapping is released before LoadDictFile returns; only
// the parsed (word, freq) records, never the mapped bytes, are retained.
func (d *Dictionary) LoadDictFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	defer mapped.Unmap()

	return d.LoadDict(bytes.NewReader(mapped))
}

// parseDictLine parses a single dictionary line. An empty line (after
// trimming trailing whitespace) is reported via ok=false with a nil
// error -- it is accepted, not malformed.
func parseDictLine(raw string, lineNo int) (word string, freq int, ok bool, err error) {
	line := strings.TrimRight(raw, " \t\r\n")
	if line == "" {
		return "", 0, false, nil
	}
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", 0, false, badDictionary(lineNo, "missing frequency field")
	}
	word = parts[0]
	freq, convErr := strconv.Atoi(parts[1])
	if convErr != nil {
		return "", 0, false, badDictionary(lineNo, "frequency \""+parts[1]+"\" is not an integer")
	}
	if freq < 0 {
		return "", 0, false, badDictionary(lineNo, "frequency must be non-negative")
	}
	return word, freq, true, nil
}

// insertLocked implements spec.md §4.1's insert(word, freq): it stores
// word -> freq (overwriting any existing entry), adds freq to total when
// freq is positive, and inserts a freq-0 sentinel for every non-empty
// strict prefix of word that isn't already present. Callers must hold
// d.mu for writing.
//
// A freq below d.minReal is demoted to the freq-0 sentinel value before
// any of that happens (EngineConfig.MinRealFrequency): it is stored (so
// HasPrefix still sees it) but never counted as a real word and never
// added to total.
func (d *Dictionary) insertLocked(word string, freq int) {
	if freq > 0 && freq < d.minReal {
		freq = 0
	}
	key := patricia.Prefix(word)
	if d.trie.Get(key) != nil {
		d.trie.Delete(key)
	}
	d.trie.Insert(key, freq)
	if freq > 0 {
		d.total += freq
	}

	runes := []rune(word)
	for i := 1; i < len(runes); i++ {
		prefix := patricia.Prefix(string(runes[:i]))
		if d.trie.Get(prefix) == nil {
			d.trie.Insert(prefix, 0)
		}
	}
}

// AddTerm inserts or overwrites a single word's frequency, the
// single-record form of LoadDict. It is how AddWord and tests grow a
// Dictionary without going through the line-oriented format.
func (d *Dictionary) AddTerm(word string, freq int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertLocked(word, freq)
}

// AddWord inserts or grows word, the jieba-go idiom for incremental
// dictionary growth (ported from the teacher's prefixDictionary.addTerm
// paired with the Tokenizer-level AddWord). A non-positive freq asks the
// Dictionary to derive one itself via SuggestFreq instead of storing a
// meaningless frequency.
func (d *Dictionary) AddWord(word string, freq int) {
	if freq <= 0 {
		freq = d.SuggestFreq(word)
	}
	d.AddTerm(word, freq)
}

// SuggestFreq derives a frequency for word from the dictionary's own
// content, ported from the teacher's prefixDictionary.suggestFreq: cut
// word against the current dictionary (DAG + Route Solver, no HMM --
// word is itself taken as one dictionary block) and multiply each
// piece's relative frequency over the dictionary total. The result is
// floored to be at least as large as any frequency already stored for
// word, so AddWord never silently shrinks an existing entry.
func (d *Dictionary) SuggestFreq(word string) int {
	total := d.Total()
	if total < 1 {
		total = 1
	}

	table := buildCharTable(word)
	dg := buildDAG(word, table, d)
	route := solveRoute(word, table, dg, d)

	freq := 1.0
	x := 0
	for x < len(table) {
		y := route[x].end
		pieceFreq, found := d.Get(substring(word, table, x, y))
		if !found || pieceFreq == 0 {
			pieceFreq = 1
		}
		freq *= float64(pieceFreq) / float64(total)
		x = y + 1
	}

	suggested := int(freq*float64(total)) + 1
	if existing, found := d.Get(word); found && existing > suggested {
		return existing
	}
	return suggested
}

// Get performs an exact lookup, spec.md §4.1's get(word).
func (d *Dictionary) Get(word string) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item := d.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	return item.(int), true
}

// HasPrefix reports whether any stored key equals prefix, real or
// sentinel -- spec.md §4.1's has_prefix.
func (d *Dictionary) HasPrefix(prefix string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.trie.Get(patricia.Prefix(prefix)) != nil
}

// Total returns the running sum of positive frequencies loaded so far.
func (d *Dictionary) Total() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.total
}

type dictEntry struct {
	Word string `msgpack:"w"`
	Freq int    `msgpack:"f"`
}

type dictSnapshot struct {
	Total   int         `msgpack:"t"`
	Entries []dictEntry `msgpack:"e"`
}

// Snapshot serializes the Dictionary's full trie content (including
// sentinel entries) and its running total to a compact binary form,
// avoiding a re-parse of the source dictionary text on every process
// start. The result round-trips through LoadSnapshot with identical
// Get/HasPrefix/Total answers.
func (d *Dictionary) Snapshot() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]dictEntry, 0, 1024)
	err := d.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		entries = append(entries, dictEntry{Word: string(prefix), Freq: item.(int)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(dictSnapshot{Total: d.total, Entries: entries})
}

// LoadSnapshot reconstructs a Dictionary from the output of Snapshot.
func LoadSnapshot(data []byte) (*Dictionary, error) {
	var snap dictSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	d := NewDictionary()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range snap.Entries {
		d.trie.Insert(patricia.Prefix(e.Word), e.Freq)
	}
	d.total = snap.Total
	return d, nil
}
