package insights

const (
	DefaultBaselineWindowDays = 14
	DefaultMaxTopicsPerPrompt = 3
)

// DefaultScoringConfig returns a fresh copy of the built-in scoring setup.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Enabled: true,
		Weights: Weights{
			WorkEngagement:      0.3,
			CareerAlignment:     0.2,
			ManagerRelationship: 0.2,
			PersonalWellbeing:   0.2,
			JobMobility:         0.1,
		},
		Thresholds: Thresholds{
			LowScoreThreshold:  50,
			RapidDropThreshold: 20,
			RapidDropDays:      30,
			RiskFlagThreshold:  30,
		},
	}
}

// ThresholdsOverride holds the thresholds a customer chose to change.
type ThresholdsOverride struct {
	LowScoreThreshold  *float64 `json:"lowScoreThreshold,omitempty"`
	RapidDropThreshold *float64 `json:"rapidDropThreshold,omitempty"`
	RapidDropDays      *int     `json:"rapidDropDays,omitempty"`
	RiskFlagThreshold  *float64 `json:"riskFlagThreshold,omitempty"`
}

// ScoringConfigOverride is a partial scoring config. Nil fields keep the
// value they are merged onto. Weights are replaced as a whole.
type ScoringConfigOverride struct {
	Enabled    *bool               `json:"enabled,omitempty"`
	Weights    *Weights            `json:"weights,omitempty"`
	Thresholds *ThresholdsOverride `json:"thresholds,omitempty"`
}

// MergeScoringConfig applies o on top of base and returns the result.
// base is not modified.
func MergeScoringConfig(base ScoringConfig, o *ScoringConfigOverride) ScoringConfig {
	out := base
	if o == nil {
		return out
	}
	if o.Enabled != nil {
		out.Enabled = *o.Enabled
	}
	if o.Weights != nil {
		out.Weights = *o.Weights
	}
	if t := o.Thresholds; t != nil {
		if t.LowScoreThreshold != nil {
			out.Thresholds.LowScoreThreshold = *t.LowScoreThreshold
		}
		if t.RapidDropThreshold != nil {
			out.Thresholds.RapidDropThreshold = *t.RapidDropThreshold
		}
		if t.RapidDropDays != nil {
			out.Thresholds.RapidDropDays = *t.RapidDropDays
		}
		if t.RiskFlagThreshold != nil {
			out.Thresholds.RiskFlagThreshold = *t.RiskFlagThreshold
		}
	}
	return out
}

// DefaultTopics returns the built-in topic catalog, one topic per
// dimension plus recognition.
func DefaultTopics() []MessagingTopic {
	return []MessagingTopic{
		{
			ID:          "work_engagement",
			Name:        "Work Engagement",
			Description: "How energized and involved the worker feels in day-to-day tasks",
			IsEnabled:   true,
			Priority:    PriorityHigh,
			Frequency:   FrequencyWeekly,
			Category:    string(WorkEngagement),
			SamplePrompts: []string{
				"How motivated did you feel at work this week?",
				"Which part of your work kept you most engaged recently?",
			},
		},
		{
			ID:          "career_growth",
			Name:        "Career Growth",
			Description: "Whether the assignment fits the worker's goals and skills",
			IsEnabled:   true,
			Priority:    PriorityMedium,
			Frequency:   FrequencyMonthly,
			Category:    string(CareerAlignment),
			SamplePrompts: []string{
				"Does this role help you build the skills you want?",
				"Where would you like your career to go in the next year?",
			},
		},
		{
			ID:          "manager_relationship",
			Name:        "Manager Relationship",
			Description: "Quality of support and communication from the supervisor",
			IsEnabled:   true,
			Priority:    PriorityHigh,
			Frequency:   FrequencyWeekly,
			Category:    string(ManagerRelationship),
			SamplePrompts: []string{
				"Do you feel supported by your supervisor?",
				"How clear was the feedback you received recently?",
			},
		},
		{
			ID:          "wellbeing",
			Name:        "Personal Wellbeing",
			Description: "Stress, workload and work-life balance",
			IsEnabled:   true,
			Priority:    PriorityMedium,
			Frequency:   FrequencyWeekly,
			Category:    string(PersonalWellbeing),
			SamplePrompts: []string{
				"How manageable has your workload been?",
				"Are you getting enough rest between shifts?",
			},
		},
		{
			ID:          "job_mobility",
			Name:        "Job Mobility",
			Description: "Likelihood that the worker is looking elsewhere",
			IsEnabled:   true,
			Priority:    PriorityLow,
			Frequency:   FrequencyQuarterly,
			Category:    string(JobMobility),
			SamplePrompts: []string{
				"Do you see yourself in this role six months from now?",
				"What would make you consider a different assignment?",
			},
		},
		{
			ID:          "recognition",
			Name:        "Recognition",
			Description: "Whether good work is noticed and acknowledged",
			IsEnabled:   true,
			Priority:    PriorityLow,
			Frequency:   FrequencyMonthly,
			Category:    "recognition",
			SamplePrompts: []string{
				"Was your effort recognized by the team lately?",
				"Who on your team deserves a shout-out this month?",
			},
		},
	}
}

// DefaultMessagingConfig returns the messaging setup a customer starts with.
func DefaultMessagingConfig() MessagingConfig {
	return MessagingConfig{
		Topics:                DefaultTopics(),
		EnableCustomTopics:    false,
		MaxTopicsPerPrompt:    DefaultMaxTopicsPerPrompt,
		TopicRotationStrategy: StrategyPriority,
		DefaultFrequency:      FrequencyWeekly,
	}
}

// MessagingConfigOverride is a partial messaging config. A non-nil Topics
// slice replaces the whole catalog.
type MessagingConfigOverride struct {
	Topics                []MessagingTopic  `json:"topics,omitempty"`
	EnableCustomTopics    *bool             `json:"enableCustomTopics,omitempty"`
	MaxTopicsPerPrompt    *int              `json:"maxTopicsPerPrompt,omitempty"`
	TopicRotationStrategy *RotationStrategy `json:"topicRotationStrategy,omitempty"`
	DefaultFrequency      *Frequency        `json:"defaultFrequency,omitempty"`
}

// MergeMessagingConfig applies o on top of base. Topic slices are copied so
// the result shares no backing arrays with either input.
func MergeMessagingConfig(base MessagingConfig, o *MessagingConfigOverride) MessagingConfig {
	out := base
	out.Topics = cloneTopics(base.Topics)
	if o == nil {
		return out
	}
	if o.Topics != nil {
		out.Topics = cloneTopics(o.Topics)
	}
	if o.EnableCustomTopics != nil {
		out.EnableCustomTopics = *o.EnableCustomTopics
	}
	if o.MaxTopicsPerPrompt != nil {
		out.MaxTopicsPerPrompt = *o.MaxTopicsPerPrompt
	}
	if o.TopicRotationStrategy != nil {
		out.TopicRotationStrategy = *o.TopicRotationStrategy
	}
	if o.DefaultFrequency != nil {
		out.DefaultFrequency = *o.DefaultFrequency
	}
	return out
}

func cloneTopics(in []MessagingTopic) []MessagingTopic {
	out := make([]MessagingTopic, len(in))
	for i, t := range in {
		t.SamplePrompts = append([]string(nil), t.SamplePrompts...)
		out[i] = t
	}
	return out
}
