package insights_test

import (
	"testing"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	assert.Equal(t, 30.0, insights.Percentile(sorted, 50))
	assert.Equal(t, 10.0, insights.Percentile(sorted, 0))
	assert.Equal(t, 50.0, insights.Percentile(sorted, 100))
	assert.InDelta(t, 46.0, insights.Percentile(sorted, 90), 1e-9)

	even := []float64{10, 20, 30, 40}
	assert.InDelta(t, 25.0, insights.Percentile(even, 50), 1e-9)
	assert.InDelta(t, 17.5, insights.Percentile(even, 25), 1e-9)
}

func TestCalculatePercentiles(t *testing.T) {
	assert.Equal(t, insights.Percentiles{}, insights.CalculatePercentiles(nil))
	assert.Equal(t, insights.Percentiles{}, insights.CalculatePercentiles([]float64{}))

	input := []float64{40, 10, 30, 20, 50}
	got := insights.CalculatePercentiles(input)
	assert.Equal(t, 30.0, got.P50)
	assert.Equal(t, 20.0, got.P25)
	assert.Equal(t, 40.0, got.P75)
	assert.Equal(t, []float64{40, 10, 30, 20, 50}, input, "input must not be reordered")
}

func TestGlobalBenchmark(t *testing.T) {
	t.Run("empty population", func(t *testing.T) {
		b := insights.GlobalBenchmark(nil, insights.DateRange{}, day0)
		assert.Equal(t, insights.BenchmarkGlobal, b.Type)
		assert.Equal(t, "global", b.ID)
		assert.Zero(t, b.WorkerCount)
		assert.Zero(t, b.CustomerCount)
		assert.Zero(t, b.OverallScore)
		assert.Equal(t, insights.Percentiles{}, b.Percentiles)
	})

	t.Run("date filtered", func(t *testing.T) {
		a := record("w1", 40, day0)
		b := record("w2", 60, day0.AddDate(0, 0, 1))
		b.CustomerID = "cust-2"
		late := record("w3", 100, day0.AddDate(0, 0, 20))

		dr := insights.DateRange{Start: day0, End: day0.AddDate(0, 0, 5)}
		got := insights.GlobalBenchmark([]insights.ScoreRecord{a, b, late}, dr, day0)

		assert.Equal(t, 2, got.WorkerCount)
		assert.Equal(t, 2, got.CustomerCount)
		assert.Equal(t, 50.0, got.OverallScore)
		assert.Equal(t, 50.0, got.Dimensions.JobMobility)
		assert.Equal(t, 50.0, got.Percentiles.P50)
		assert.Equal(t, "2025-03-02", got.DateRange.Start)
		assert.Equal(t, "2025-03-07", got.DateRange.End)
	})
}

func TestIndustryBenchmark(t *testing.T) {
	customers := []insights.Customer{
		{ID: "cust-1", IndustryCode: "LOG", IndustryName: "Logistics"},
		{ID: "cust-2", IndustryCode: "RET", IndustryName: "Retail"},
		{ID: "cust-3", IndustryCode: "LOG", IndustryName: "Logistics & Freight"},
	}
	r1 := record("w1", 40, day0)
	r2 := record("w2", 90, day0)
	r2.CustomerID = "cust-2"
	r3 := record("w3", 60, day0)
	r3.CustomerID = "cust-3"
	records := []insights.ScoreRecord{r1, r2, r3}

	t.Run("scoped to industry members", func(t *testing.T) {
		b := insights.IndustryBenchmark(records, customers, "LOG", insights.DateRange{}, day0)
		assert.Equal(t, "industry_LOG", b.ID)
		assert.Equal(t, "Logistics", b.IndustryName)
		assert.Equal(t, 2, b.WorkerCount)
		assert.Equal(t, 2, b.CustomerCount)
		assert.Equal(t, 50.0, b.OverallScore)
	})

	t.Run("unknown industry is all zero", func(t *testing.T) {
		b := insights.IndustryBenchmark(records, customers, "MED", insights.DateRange{}, day0)
		assert.Equal(t, insights.BenchmarkIndustry, b.Type)
		assert.Equal(t, "MED", b.IndustryCode)
		assert.Zero(t, b.CustomerCount)
		assert.Zero(t, b.WorkerCount)
		assert.Empty(t, b.IndustryName)
	})

	t.Run("customer composite", func(t *testing.T) {
		set, err := insights.CustomerBenchmarks("cust-2", records, customers, insights.DateRange{}, day0)
		require.NoError(t, err)
		assert.Equal(t, 3, set.Global.WorkerCount)
		require.NotNil(t, set.Industry)
		assert.Equal(t, 1, set.Industry.WorkerCount)

		_, err = insights.CustomerBenchmarks("nobody", records, customers, insights.DateRange{}, day0)
		assert.ErrorIs(t, err, insights.ErrNotFound)

		noIndustry := append(customers, insights.Customer{ID: "cust-4"})
		set, err = insights.CustomerBenchmarks("cust-4", records, noIndustry, insights.DateRange{}, day0)
		require.NoError(t, err)
		assert.Nil(t, set.Industry)
	})
}
