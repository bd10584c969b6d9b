package insights

import (
	"fmt"
	"sort"
	"time"
)

type BenchmarkType string

const (
	BenchmarkGlobal   BenchmarkType = "global"
	BenchmarkIndustry BenchmarkType = "industry"
)

type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

type Benchmark struct {
	ID            string        `json:"id"`
	Type          BenchmarkType `json:"type"`
	IndustryCode  string        `json:"industryCode,omitempty"`
	IndustryName  string        `json:"industryName,omitempty"`
	Dimensions    DimensionSet  `json:"dimensions"`
	OverallScore  float64       `json:"overallScore"`
	WorkerCount   int           `json:"workerCount"`
	CustomerCount int           `json:"customerCount"`
	Percentiles   Percentiles   `json:"percentiles"`
	DateRange     DateSpan      `json:"dateRange"`
	CalculatedAt  time.Time     `json:"calculatedAt"`
}

// BenchmarkSet is what a customer sees: always the global benchmark, and
// the industry one when the customer has an industry.
type BenchmarkSet struct {
	Global   Benchmark  `json:"global"`
	Industry *Benchmark `json:"industry,omitempty"`
}

// BenchmarkID is the storage identity of a benchmark.
func BenchmarkID(t BenchmarkType, industryCode string) string {
	if t == BenchmarkIndustry {
		return "industry_" + industryCode
	}
	return string(BenchmarkGlobal)
}

// CalculatePercentiles returns the quartiles and p90 of the scores. An empty
// input yields all zeros.
func CalculatePercentiles(scores []float64) Percentiles {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	return Percentiles{
		P25: Percentile(sorted, 25),
		P50: Percentile(sorted, 50),
		P75: Percentile(sorted, 75),
		P90: Percentile(sorted, 90),
	}
}

// GlobalBenchmark aggregates every record inside dr.
func GlobalBenchmark(records []ScoreRecord, dr DateRange, now time.Time) Benchmark {
	b := aggregateBenchmark(filterRange(records, dr), dr)
	b.ID = BenchmarkID(BenchmarkGlobal, "")
	b.Type = BenchmarkGlobal
	b.CalculatedAt = now.UTC()
	return b
}

// IndustryBenchmark aggregates the records of customers tagged with code.
// With no such customers the result is all zeros.
func IndustryBenchmark(records []ScoreRecord, customers []Customer, code string, dr DateRange, now time.Time) Benchmark {
	members := make(map[string]struct{})
	name := ""
	for _, c := range customers {
		if c.IndustryCode != code {
			continue
		}
		if len(members) == 0 {
			name = c.IndustryName
		}
		members[c.ID] = struct{}{}
	}

	b := Benchmark{}
	if len(members) > 0 {
		scoped := make([]ScoreRecord, 0, len(records))
		for _, r := range filterRange(records, dr) {
			if _, ok := members[r.CustomerID]; ok {
				scoped = append(scoped, r)
			}
		}
		b = aggregateBenchmark(scoped, dr)
		b.IndustryName = name
	}
	b.ID = BenchmarkID(BenchmarkIndustry, code)
	b.Type = BenchmarkIndustry
	b.IndustryCode = code
	b.CalculatedAt = now.UTC()
	return b
}

// CustomerBenchmarks resolves the customer's industry and computes the
// benchmarks it is compared against.
func CustomerBenchmarks(customerID string, records []ScoreRecord, customers []Customer, dr DateRange, now time.Time) (BenchmarkSet, error) {
	var customer *Customer
	for i := range customers {
		if customers[i].ID == customerID {
			customer = &customers[i]
			break
		}
	}
	if customer == nil {
		return BenchmarkSet{}, fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}

	set := BenchmarkSet{Global: GlobalBenchmark(records, dr, now)}
	if customer.IndustryCode != "" {
		ind := IndustryBenchmark(records, customers, customer.IndustryCode, dr, now)
		set.Industry = &ind
	}
	return set, nil
}

func filterRange(records []ScoreRecord, dr DateRange) []ScoreRecord {
	if dr.Start.IsZero() && dr.End.IsZero() {
		return records
	}
	out := make([]ScoreRecord, 0, len(records))
	for _, r := range records {
		if dr.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

func aggregateBenchmark(population []ScoreRecord, dr DateRange) Benchmark {
	if len(population) == 0 {
		return Benchmark{DateRange: DateSpan{Start: formatDate(dr.Start), End: formatDate(dr.End)}}
	}

	scores := make([]float64, len(population))
	customers := make(map[string]struct{})
	first, last := population[0].Timestamp, population[0].Timestamp
	for i, r := range population {
		scores[i] = float64(r.OverallScore)
		customers[r.CustomerID] = struct{}{}
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	if !dr.Start.IsZero() {
		first = dr.Start
	}
	if !dr.End.IsZero() {
		last = dr.End
	}

	return Benchmark{
		Dimensions:    averageDimensions(population),
		OverallScore:  roundHalfUp(mean(scores)),
		WorkerCount:   len(population),
		CustomerCount: len(customers),
		Percentiles:   CalculatePercentiles(scores),
		DateRange:     DateSpan{Start: formatDate(first), End: formatDate(last)},
	}
}
