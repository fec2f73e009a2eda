package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryStrategy       Category = "strategy"
	CategoryDesign         Category = "design"
	CategoryTechnical      Category = "technical"
	CategoryAnalytics      Category = "analytics"
	CategoryLeadership     Category = "leadership"
	CategoryCaseStudy      Category = "case-study"
	CategoryBehavioral     Category = "behavioral"
	CategoryEstimation     Category = "estimation"
	CategoryPrioritization Category = "prioritization"
	CategoryMarketResearch Category = "market-research"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryStrategy,
		CategoryDesign,
		CategoryTechnical,
		CategoryAnalytics,
		CategoryLeadership,
		CategoryCaseStudy,
		CategoryBehavioral,
		CategoryEstimation,
		CategoryPrioritization,
		CategoryMarketResearch,
	}
}

// Difficulties returns every known difficulty from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}
}

func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported category %q", string(c))
}

func (d Difficulty) Validate() error {
	for _, known := range Difficulties() {
		if d == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported difficulty %q", string(d))
}

type Question struct {
	ID               string     `yaml:"id" json:"id"`
	Prompt           string     `yaml:"prompt" json:"prompt"`
	Category         Category   `yaml:"category" json:"category"`
	Difficulty       Difficulty `yaml:"difficulty" json:"difficulty"`
	Context          string     `yaml:"context,omitempty" json:"context,omitempty"`
	Framework        []string   `yaml:"framework,omitempty" json:"framework,omitempty"`
	EstimatedMinutes *int       `yaml:"estimated_minutes,omitempty" json:"estimatedMinutes,omitempty"`
	Tags             []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	FollowUps        []string   `yaml:"follow_ups,omitempty" json:"followUps,omitempty"`
	RequiresContext  bool       `yaml:"requires_context,omitempty" json:"requiresContext,omitempty"`
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %s: prompt is required", q.ID)
	}
	if err := q.Category.Validate(); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	if err := q.Difficulty.Validate(); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	if q.EstimatedMinutes != nil && *q.EstimatedMinutes <= 0 {
		return fmt.Errorf("question %s: estimated minutes must be positive", q.ID)
	}
	return nil
}

// ValidateCatalog checks every record and reports duplicate ids.
func ValidateCatalog(questions []Question) []error {
	var problems []error
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if _, dup := seen[q.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate question id %q", q.ID))
			continue
		}
		seen[q.ID] = struct{}{}
	}
	return problems
}

func FindByID(questions []Question, id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
