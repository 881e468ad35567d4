package cutter

import (
	"math"

	"golang.org/x/exp/constraints"
)

// routeStep is one entry of spec.md §3's route array: the best
// log-probability attainable starting at this position, and the end
// position of the word chosen to achieve it.
type routeStep struct {
	logProb float64
	end     int
}

// solveRoute implements the Route Solver of spec.md §4.3: a backward
// dynamic program over the DAG that picks, at each start k, the word
// e in ends(k) maximizing ln(freq(k,e)) - ln(total) + route[e+1].logProb,
// with route[n] = (0.0, 0) as the terminal sentinel. A word absent from
// the dictionary, or present only as a freq-0 sentinel, is scored as if
// its frequency were 1, matching spec.md's "defaulting to 1... to avoid
// -inf."
func solveRoute(sentence string, table []charIndex, d dag, dict *Dictionary) []routeStep {
	n := len(table)
	route := make([]routeStep, n+1)
	route[n] = routeStep{logProb: 0.0, end: 0}

	logTotal := math.Log(float64(maxInt(dict.Total(), 1)))

	for k := n - 1; k >= 0; k-- {
		ends := d[k]
		scores := make([]float64, len(ends))
		for i, e := range ends {
			freq, found := dict.Get(substring(sentence, table, k, e))
			if !found || freq == 0 {
				freq = 1
			}
			scores[i] = math.Log(float64(freq)) - logTotal + route[e+1].logProb
		}
		bestScore, bestEnd := argbest(scores, ends)
		route[k] = routeStep{logProb: bestScore, end: bestEnd}
	}
	return route
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// nanEqual treats NaN as equal to NaN, per spec.md §4.3/§7's defensive
// float-comparison rule; it should never arise in practice.
func nanEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.IsNaN(a) && math.IsNaN(b)
}

// argbest returns the (score, value) pair with the highest score,
// breaking ties (including NaN-vs-NaN, treated as a tie) in favor of the
// largest value -- spec.md §4.3's documented "largest e wins" policy,
// generalized over any ordered candidate label so route.go (candidates
// are end positions) and hmm.go (candidates are predecessor states) share
// one implementation.
func argbest[T constraints.Ordered](scores []float64, values []T) (float64, T) {
	bestScore := scores[0]
	bestValue := values[0]
	for i := 1; i < len(scores); i++ {
		s := scores[i]
		switch {
		case nanEqual(s, bestScore):
			if values[i] >= bestValue {
				bestValue = values[i]
				bestScore = s
			}
		case s > bestScore:
			bestScore = s
			bestValue = values[i]
		}
	}
	return bestScore, bestValue
}
