package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MannWhitneyU computes the Mann-Whitney U statistic for groupA against
// groupB and a two-sided p-value from the normal approximation with tie
// correction and continuity correction. The approximation is used
// uniformly so tied and untied data go through the same path. Each
// group must have at least 1 value.
func MannWhitneyU(groupA, groupB []float64) (uStat, pValue float64) {
	nA := float64(len(groupA))
	nB := float64(len(groupB))
	if nA < 1 || nB < 1 {
		return 0, 1
	}

	ranks, tieTerm := rankCombined(groupA, groupB)

	// Rank sum of group A over the combined sample.
	rankSumA := 0.0
	for i := range groupA {
		rankSumA += ranks[i]
	}

	uStat = rankSumA - nA*(nA+1)/2

	n := nA + nB
	mu := nA * nB / 2
	sigma := math.Sqrt(nA * nB / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		// Every value tied across both groups: no evidence either way.
		return uStat, 1
	}

	// Continuity correction pulls the statistic half a rank toward the mean.
	z := uStat - mu
	switch {
	case z > 0:
		z -= 0.5
	case z < 0:
		z += 0.5
	}
	z /= sigma

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	pValue = 2 * normal.CDF(-math.Abs(z))
	if pValue > 1 {
		pValue = 1
	}
	return uStat, pValue
}

// rankCombined assigns average ranks (1-based) to the concatenation of
// the two groups, resolving ties by averaging. It returns one rank per
// input position (group A first) and the tie term sum(t^3 - t) needed
// for the variance correction.
func rankCombined(groupA, groupB []float64) (ranks []float64, tieTerm float64) {
	total := len(groupA) + len(groupB)
	combined := make([]float64, 0, total)
	combined = append(combined, groupA...)
	combined = append(combined, groupB...)

	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return combined[order[i]] < combined[order[j]]
	})

	ranks = make([]float64, total)
	for i := 0; i < total; {
		j := i
		for j < total && combined[order[j]] == combined[order[i]] {
			j++
		}
		// Positions i..j-1 are tied: all receive the average rank.
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avgRank
		}
		tieSize := float64(j - i)
		if tieSize > 1 {
			tieTerm += tieSize*tieSize*tieSize - tieSize
		}
		i = j
	}
	return ranks, tieTerm
}
