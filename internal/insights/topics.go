package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

type RotationStrategy string

const (
	StrategyRandom    RotationStrategy = "random"
	StrategyPriority  RotationStrategy = "priority"
	StrategyFrequency RotationStrategy = "frequency"
)

type MessagingTopic struct {
	ID            string    `json:"id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description"`
	IsEnabled     bool      `json:"isEnabled"`
	Priority      Priority  `json:"priority" validate:"oneof=high medium low"`
	Frequency     Frequency `json:"frequency" validate:"oneof=weekly monthly quarterly"`
	SamplePrompts []string  `json:"samplePrompts" validate:"min=1,dive,required"`
	Category      string    `json:"category"`
}

// MessagingConfig drives which topics are surfaced to workers. Unknown
// rotation strategies fall back to random selection.
type MessagingConfig struct {
	CustomerID            string           `json:"customerId,omitempty"`
	AgencyID              string           `json:"agencyId,omitempty"`
	Topics                []MessagingTopic `json:"topics" validate:"dive"`
	EnableCustomTopics    bool             `json:"enableCustomTopics"`
	MaxTopicsPerPrompt    int              `json:"maxTopicsPerPrompt" validate:"gte=1"`
	TopicRotationStrategy RotationStrategy `json:"topicRotationStrategy"`
	DefaultFrequency      Frequency        `json:"defaultFrequency" validate:"oneof=weekly monthly quarterly"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// Rand is the random source used by topic selection. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type TopicSelection struct {
	Strategy RotationStrategy `json:"strategy"`
	Topics   []MessagingTopic `json:"topics"`
	Prompt   string           `json:"prompt"`
}

// AddTopic appends a custom topic. Custom topics must be enabled on the
// config; a missing ID is generated and a missing frequency takes the
// config default.
func AddTopic(cfg MessagingConfig, topic MessagingTopic) (MessagingConfig, error) {
	if !cfg.EnableCustomTopics {
		return MessagingConfig{}, fmt.Errorf("%w: custom topics are not enabled", ErrValidation)
	}
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.Frequency == "" {
		topic.Frequency = cfg.DefaultFrequency
	}
	if topic.Priority == "" {
		topic.Priority = PriorityMedium
	}
	if err := validateStruct(topic); err != nil {
		return MessagingConfig{}, err
	}
	for _, t := range cfg.Topics {
		if t.ID == topic.ID {
			return MessagingConfig{}, fmt.Errorf("%w: topic %q already exists", ErrValidation, topic.ID)
		}
	}

	out := MergeMessagingConfig(cfg, nil)
	out.Topics = append(out.Topics, topic)
	return out, nil
}

// SelectTopics picks at most MaxTopicsPerPrompt enabled topics and renders a
// prompt from them. An empty strategy uses the configured one.
func SelectTopics(cfg MessagingConfig, strategy RotationStrategy, rng Rand) (TopicSelection, error) {
	if rng == nil {
		return TopicSelection{}, fmt.Errorf("%w: random source is required", ErrValidation)
	}
	enabled := make([]MessagingTopic, 0, len(cfg.Topics))
	for _, t := range cfg.Topics {
		if t.IsEnabled {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return TopicSelection{}, ErrNoEligibleTopics
	}

	if strategy == "" {
		strategy = cfg.TopicRotationStrategy
	}
	limit := cfg.MaxTopicsPerPrompt
	if limit <= 0 {
		limit = DefaultMaxTopicsPerPrompt
	}

	var selected []MessagingTopic
	switch strategy {
	case StrategyPriority:
		selected = selectByPriority(enabled, limit)
	case StrategyFrequency:
		selected = selectByFrequency(enabled, limit)
	default:
		strategy = StrategyRandom
		selected = selectRandom(enabled, limit, rng)
	}

	return TopicSelection{
		Strategy: strategy,
		Topics:   selected,
		Prompt:   RenderPrompt(selected, rng),
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func firstN(topics []MessagingTopic, n int) []MessagingTopic {
	if len(topics) > n {
		return topics[:n]
	}
	return topics
}

func filterTopics(topics []MessagingTopic, keep func(MessagingTopic) bool) []MessagingTopic {
	var out []MessagingTopic
	for _, t := range topics {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func selectByPriority(enabled []MessagingTopic, limit int) []MessagingTopic {
	tier := func(p Priority) []MessagingTopic {
		return filterTopics(enabled, func(t MessagingTopic) bool { return t.Priority == p })
	}
	out := make([]MessagingTopic, 0, limit)
	out = append(out, firstN(tier(PriorityHigh), ceilDiv(limit, 2))...)
	out = append(out, firstN(tier(PriorityMedium), ceilDiv(limit, 3))...)
	out = append(out, firstN(tier(PriorityLow), ceilDiv(limit, 6))...)
	return firstN(out, limit)
}

// selectByFrequency never picks quarterly topics.
func selectByFrequency(enabled []MessagingTopic, limit int) []MessagingTopic {
	weekly := filterTopics(enabled, func(t MessagingTopic) bool { return t.Frequency == FrequencyWeekly })
	monthly := filterTopics(enabled, func(t MessagingTopic) bool { return t.Frequency == FrequencyMonthly })
	out := make([]MessagingTopic, 0, 3)
	out = append(out, firstN(weekly, 2)...)
	out = append(out, firstN(monthly, 1)...)
	return firstN(out, limit)
}

func selectRandom(enabled []MessagingTopic, limit int, rng Rand) []MessagingTopic {
	shuffled := append([]MessagingTopic(nil), enabled...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return firstN(shuffled, limit)
}

// RenderPrompt renders one random sample prompt per topic as
// "name: prompt", separated by blank lines.
func RenderPrompt(topics []MessagingTopic, rng Rand) string {
	lines := make([]string, 0, len(topics))
	for _, t := range topics {
		if len(t.SamplePrompts) == 0 {
			lines = append(lines, t.Name)
			continue
		}
		prompt := t.SamplePrompts[rng.Intn(len(t.SamplePrompts))]
		lines = append(lines, t.Name+": "+prompt)
	}
	return strings.Join(lines, "\n\n")
}
