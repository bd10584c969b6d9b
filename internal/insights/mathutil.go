package insights

import (
	"math"
	"sort"
)

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return roundHalfUp(x*p) / p
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by n, not n-1.
func populationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// Percentile interpolates linearly between the closest ranks of an
// ascending slice. p is in [0,100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	index := (p / 100) * float64(n-1)
	lower := math.Floor(index)
	upper := math.Ceil(index)
	if lower == upper {
		return sorted[int(index)]
	}
	frac := index - lower
	return sorted[int(lower)]*(1-frac) + sorted[int(upper)]*frac
}

// PercentChange mirrors the period-over-period rule: a missing reference
// counts as a full 100% gain when there is a current value.
func PercentChange(current, reference float64) float64 {
	switch {
	case reference > 0:
		return roundTo((current-reference)/reference*100, 1)
	case current > 0:
		return 100
	default:
		return 0
	}
}

func sortByTimestamp(records []ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func averageDimensions(records []ScoreRecord) DimensionSet {
	if len(records) == 0 {
		return DimensionSet{}
	}
	return dimensionSetFrom(func(dim Dimension) float64 {
		sum := 0.0
		for _, r := range records {
			sum += r.Dimensions.Get(dim)
		}
		return roundHalfUp(sum / float64(len(records)))
	})
}

func averageOverall(records []ScoreRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.OverallScore
	}
	return float64(sum) / float64(len(records))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
