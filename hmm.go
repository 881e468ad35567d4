package cutter

import (
	_ "embed"
	"encoding/json"

	"github.com/charmbracelet/log"
)

// bmesState is one of the four character-role labels spec.md §3/§4.4
// describes: Begin, Middle, End, Single.
type bmesState string

const (
	stateB bmesState = "B"
	stateM bmesState = "M"
	stateE bmesState = "E"
	stateS bmesState = "S"
)

var bmesStates = []bmesState{stateB, stateM, stateE, stateS}

// predecessors lists, for each state, the states legally allowed to
// transition into it -- the inverse of spec.md §4.4's "from B: only M or
// E / from M: only M or E / from E: only B or S / from S: only B or S"
// forward table. Every other transition is implicitly -inf: it is never
// listed here and the Viterbi step never considers it.
var predecessors = map[bmesState][]bmesState{
	stateB: {stateE, stateS},
	stateM: {stateB, stateM},
	stateE: {stateB, stateM},
	stateS: {stateE, stateS},
}

//go:embed data/hmm_emit.json
var defaultEmitJSON []byte

// hmmModel is the four-state character-role model of spec.md §4.4: an
// initial distribution, a transition table restricted to the legal BMES
// transitions, and a per-state emission table over characters. All
// values are natural-log probabilities and are treated as opaque,
// pre-trained parameters -- this module never fits or updates them.
type hmmModel struct {
	startP map[bmesState]float64
	transP map[bmesState]map[bmesState]float64
	emitP  map[bmesState]map[rune]float64
	floor  float64
	log    *log.Logger
}

// defaultHMM returns the embedded HMM parameters. The initial and
// transition tables are the published jieba BMES parameters (the same
// constants ericlingit/jieba-go's newJiebaHMM hardcodes); the emission
// table is decoded from the embedded JSON resource, the same codec and
// shape the teacher's own loadHMM uses for prob_emit.json.
func defaultHMM(floor float64) (*hmmModel, error) {
	startP := map[bmesState]float64{
		stateB: -0.26268660809250016,
		stateE: floor,
		stateM: floor,
		stateS: -1.4652633398537678,
	}
	transP := map[bmesState]map[bmesState]float64{
		stateB: {
			stateE: -0.51082562376599,
			stateM: -0.916290731874155,
		},
		stateE: {
			stateB: -0.5897149736854513,
			stateS: -0.8085250474669937,
		},
		stateM: {
			stateE: -0.33344856811948514,
			stateM: -1.2603623820268226,
		},
		stateS: {
			stateB: -0.7211965654669841,
			stateS: -0.6658631448798212,
		},
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(defaultEmitJSON, &raw); err != nil {
		return nil, err
	}
	emitP := make(map[bmesState]map[rune]float64, 4)
	for state, byChar := range raw {
		table := make(map[rune]float64, len(byChar))
		for ch, p := range byChar {
			r := []rune(ch)[0]
			table[r] = p
		}
		emitP[bmesState(state)] = table
	}

	return &hmmModel{
		startP: startP,
		transP: transP,
		emitP:  emitP,
		floor:  floor,
		log:    newLogger("hmm"),
	}, nil
}

// emit looks up the emission log-probability of ch under state,
// defaulting to the model's floor per spec.md §4.4's "unknown character
// emission" rule when ch has no entry.
func (h *hmmModel) emit(state bmesState, ch rune) float64 {
	if table, ok := h.emitP[state]; ok {
		if p, ok := table[ch]; ok {
			return p
		}
	}
	h.log.Debugf("emission lookup missed, falling back to floor: state=%s char=%q", state, ch)
	return h.floor
}

// viterbi decodes run (a contiguous slice of characters the dictionary
// path could not further segment) into its most likely BMES state
// sequence, per spec.md §4.4's recurrence. A length-1 run always decodes
// to S: the final state is chosen from E and S only, and E's start
// probability is the floor, so E never scores above S at the only
// position there is (and argbest breaks a tie in favor of S).
func (h *hmmModel) viterbi(run []rune) []bmesState {
	n := len(run)
	delta := make([]map[bmesState]float64, n)
	back := make([]map[bmesState]bmesState, n)

	delta[0] = make(map[bmesState]float64, 4)
	for _, s := range bmesStates {
		delta[0][s] = h.startP[s] + h.emit(s, run[0])
	}

	for t := 1; t < n; t++ {
		delta[t] = make(map[bmesState]float64, 4)
		back[t] = make(map[bmesState]bmesState, 4)
		for _, s := range bmesStates {
			preds := predecessors[s]
			scores := make([]float64, len(preds))
			for i, p := range preds {
				scores[i] = delta[t-1][p] + h.transP[p][s]
			}
			bestScore, bestPred := argbest(scores, preds)
			delta[t][s] = bestScore + h.emit(s, run[t])
			back[t][s] = bestPred
		}
	}

	last := n - 1
	finalScores := []float64{delta[last][stateE], delta[last][stateS]}
	finalStates := []bmesState{stateE, stateS}
	_, bestFinal := argbest(finalScores, finalStates)

	path := make([]bmesState, n)
	path[last] = bestFinal
	for t := last; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}

// extractHMMTokens implements spec.md §4.4's segmentation extraction:
// walk the decoded state sequence, starting a token at a B or a lone S
// and closing it on the next E or S. A trailing open token (the sequence
// ends in B or M) is closed at the final character -- this never
// happens for a decode produced by viterbi, since it only ever commits
// to a final state of E or S, but extractHMMTokens handles it anyway
// for states supplied directly in tests.
func extractHMMTokens(run string, table []charIndex, states []bmesState) []string {
	tokens := make([]string, 0, len(states))
	start := 0
	for i, s := range states {
		if s == stateE || s == stateS {
			tokens = append(tokens, substring(run, table, start, i))
			start = i + 1
		}
	}
	if start < len(states) {
		tokens = append(tokens, substring(run, table, start, len(states)-1))
	}
	return tokens
}
