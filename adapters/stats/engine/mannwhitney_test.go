package engine

import (
	"math"
	"testing"
)

// TestMannWhitneyU_KnownStatistic checks U against a hand-computed value
func TestMannWhitneyU_KnownStatistic(t *testing.T) {
	// Combined sorted: 10, 12, 20, 22. Group A holds ranks 1 and 2,
	// so rank sum = 3 and U = 3 - 2*3/2 = 0.
	groupA := []float64{10, 12}
	groupB := []float64{20, 22}

	uStat, pValue := MannWhitneyU(groupA, groupB)

	if uStat != 0 {
		t.Errorf("Expected U = 0, got %f", uStat)
	}
	if pValue <= 0 || pValue > 1 {
		t.Errorf("Expected p-value in (0, 1], got %f", pValue)
	}
}

// TestMannWhitneyU_IdenticalGroups verifies all-tied data is a null result
func TestMannWhitneyU_IdenticalGroups(t *testing.T) {
	group := []float64{3, 3, 3, 3}

	uStat, pValue := MannWhitneyU(group, group)

	// Every comparison is a tie, so U sits exactly at its mean.
	if uStat != float64(len(group)*len(group))/2 {
		t.Errorf("Expected U at its mean %f, got %f", float64(len(group)*len(group))/2, uStat)
	}
	if pValue != 1 {
		t.Errorf("Expected p-value 1 when every value is tied, got %f", pValue)
	}
}

// TestMannWhitneyU_CompleteSeparation verifies disjoint ranges are significant
func TestMannWhitneyU_CompleteSeparation(t *testing.T) {
	groupA := make([]float64, 25)
	groupB := make([]float64, 25)
	for i := range groupA {
		groupA[i] = float64(i)
		groupB[i] = float64(i) + 1000
	}

	uStat, pValue := MannWhitneyU(groupA, groupB)

	if uStat != 0 {
		t.Errorf("Expected U = 0 when group A is entirely below B, got %f", uStat)
	}
	if pValue >= 0.001 {
		t.Errorf("Expected p-value near 0 for complete separation, got %f", pValue)
	}
}

// TestRankCombined_NoTies verifies plain 1-based ranking
func TestRankCombined_NoTies(t *testing.T) {
	ranks, tieTerm := rankCombined([]float64{30, 10}, []float64{20, 40})

	want := []float64{3, 1, 2, 4}
	for i, r := range ranks {
		if r != want[i] {
			t.Errorf("Rank at position %d: expected %f, got %f", i, want[i], r)
		}
	}
	if tieTerm != 0 {
		t.Errorf("Expected tie term 0 without ties, got %f", tieTerm)
	}
}

// TestRankCombined_Ties verifies tied values receive the average rank
func TestRankCombined_Ties(t *testing.T) {
	// Sorted: 1, 2, 2, 3. The two 2s share ranks 2 and 3, average 2.5.
	ranks, tieTerm := rankCombined([]float64{2, 1}, []float64{2, 3})

	want := []float64{2.5, 1, 2.5, 4}
	for i, r := range ranks {
		if r != want[i] {
			t.Errorf("Rank at position %d: expected %f, got %f", i, want[i], r)
		}
	}
	// One tie group of size 2: 2^3 - 2 = 6.
	if tieTerm != 6 {
		t.Errorf("Expected tie term 6, got %f", tieTerm)
	}
}

// TestMannWhitneyU_SingleValues verifies the test runs with one value per group
func TestMannWhitneyU_SingleValues(t *testing.T) {
	uStat, pValue := MannWhitneyU([]float64{1}, []float64{2})

	if math.IsNaN(uStat) || math.IsNaN(pValue) {
		t.Fatalf("Expected finite results for single-value groups, got U=%f p=%f", uStat, pValue)
	}
	if uStat != 0 {
		t.Errorf("Expected U = 0, got %f", uStat)
	}
	if pValue <= 0 || pValue > 1 {
		t.Errorf("Expected p-value in (0, 1], got %f", pValue)
	}
}
