package insights_test

import (
	"testing"

	"github.com/godilite/jsi-server/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfig(t *testing.T) {
	cfg := insights.DefaultScoringConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.3, cfg.Weights.WorkEngagement)
	assert.Equal(t, insights.Thresholds{LowScoreThreshold: 50, RapidDropThreshold: 20, RapidDropDays: 30, RiskFlagThreshold: 30}, cfg.Thresholds)

	cfg.Weights.WorkEngagement = 9
	assert.Equal(t, 0.3, insights.DefaultScoringConfig().Weights.WorkEngagement, "defaults are fresh values")
}

func TestMergeScoringConfig(t *testing.T) {
	base := insights.DefaultScoringConfig()

	assert.Equal(t, base, insights.MergeScoringConfig(base, nil))

	disabled := false
	low := 40.0
	merged := insights.MergeScoringConfig(base, &insights.ScoringConfigOverride{
		Enabled:    &disabled,
		Thresholds: &insights.ThresholdsOverride{LowScoreThreshold: &low},
	})
	assert.False(t, merged.Enabled)
	assert.Equal(t, 40.0, merged.Thresholds.LowScoreThreshold)
	assert.Equal(t, 30.0, merged.Thresholds.RiskFlagThreshold)
	assert.Equal(t, base.Weights, merged.Weights)
	assert.True(t, base.Enabled)
}

func TestScoringConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*insights.ScoringConfig)
	}{
		{"negative weight", func(c *insights.ScoringConfig) { c.Weights.JobMobility = -0.1 }},
		{"threshold above 100", func(c *insights.ScoringConfig) { c.Thresholds.LowScoreThreshold = 120 }},
		{"zero drop days", func(c *insights.ScoringConfig) { c.Thresholds.RapidDropDays = 0 }},
		{"inverted thresholds", func(c *insights.ScoringConfig) { c.Thresholds.RiskFlagThreshold = 51 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := insights.DefaultScoringConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), insights.ErrValidation)
		})
	}
}

func TestMergeMessagingConfig(t *testing.T) {
	base := insights.DefaultMessagingConfig()
	require.NoError(t, base.Validate())
	assert.Len(t, base.Topics, 6)
	assert.Equal(t, insights.StrategyPriority, base.TopicRotationStrategy)

	maxTopics := 2
	strategy := insights.StrategyFrequency
	merged := insights.MergeMessagingConfig(base, &insights.MessagingConfigOverride{
		MaxTopicsPerPrompt:    &maxTopics,
		TopicRotationStrategy: &strategy,
	})
	assert.Equal(t, 2, merged.MaxTopicsPerPrompt)
	assert.Equal(t, insights.StrategyFrequency, merged.TopicRotationStrategy)
	assert.Len(t, merged.Topics, 6)

	merged.Topics[0].SamplePrompts[0] = "changed"
	assert.NotEqual(t, "changed", base.Topics[0].SamplePrompts[0])

	replaced := insights.MergeMessagingConfig(base, &insights.MessagingConfigOverride{
		Topics: []insights.MessagingTopic{topic("only", insights.PriorityLow, insights.FrequencyMonthly)},
	})
	assert.Equal(t, []string{"only"}, topicIDs(replaced.Topics))
}

func TestMessagingConfigValidate(t *testing.T) {
	cfg := insights.DefaultMessagingConfig()
	cfg.Topics = append(cfg.Topics, cfg.Topics[0])
	assert.ErrorIs(t, cfg.Validate(), insights.ErrValidation)

	cfg = insights.DefaultMessagingConfig()
	cfg.Topics[1].Priority = "urgent"
	assert.ErrorIs(t, cfg.Validate(), insights.ErrValidation)

	cfg = insights.DefaultMessagingConfig()
	cfg.MaxTopicsPerPrompt = 0
	assert.ErrorIs(t, cfg.Validate(), insights.ErrValidation)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 10.0, insights.PercentChange(66, 60))
	assert.Equal(t, -33.3, insights.PercentChange(40, 60))
	assert.Equal(t, 100.0, insights.PercentChange(5, 0))
	assert.Equal(t, 0.0, insights.PercentChange(0, 0))
}
