package engine

import (
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest computes the unequal-variance two-sample t-test between two
// groups: t-statistic and two-sided p-value. Degrees of freedom follow
// the Welch-Satterthwaite equation; the p-value comes from the Student's
// t CDF. Both groups must have at least 2 values.
func WelchTTest(groupA, groupB []float64) (tStat, pValue float64) {
	nA := float64(len(groupA))
	nB := float64(len(groupB))
	if nA < 2 || nB < 2 {
		return 0, 1
	}

	meanA, _ := mstats.Mean(groupA)
	meanB, _ := mstats.Mean(groupB)
	varA, _ := mstats.SampleVariance(groupA)
	varB, _ := mstats.SampleVariance(groupB)

	se := math.Sqrt(varA/nA + varB/nB)
	if se == 0 {
		// Zero spread in both groups: identical means are a perfect
		// null result, distinct means a perfect separation.
		if meanA == meanB {
			return 0, 1
		}
		if meanA > meanB {
			return math.Inf(1), 0
		}
		return math.Inf(-1), 0
	}

	tStat = (meanA - meanB) / se

	df := math.Pow(varA/nA+varB/nB, 2) /
		(math.Pow(varA/nA, 2)/(nA-1) + math.Pow(varB/nB, 2)/(nB-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * tDist.CDF(-math.Abs(tStat))
	if pValue > 1 {
		pValue = 1
	}
	return tStat, pValue
}

// CohenD computes the standardized mean difference between two groups
// using the pooled standard deviation weighted by (n-1) per group. The
// result is an absolute magnitude, symmetric under swapping the groups,
// and defined as 0 when the pooled deviation is 0.
func CohenD(groupA, groupB []float64) float64 {
	nA := float64(len(groupA))
	nB := float64(len(groupB))
	if nA < 2 || nB < 2 {
		return 0
	}

	meanA, _ := mstats.Mean(groupA)
	meanB, _ := mstats.Mean(groupB)
	varA, _ := mstats.SampleVariance(groupA)
	varB, _ := mstats.SampleVariance(groupB)

	pooled := math.Sqrt(((nA-1)*varA + (nB-1)*varB) / (nA + nB - 2))
	if pooled == 0 {
		return 0
	}
	return math.Abs(meanB-meanA) / pooled
}
