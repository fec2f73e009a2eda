package domain

import "strings"

// Filter narrows a catalog. Zero-valued fields impose no constraint.
type Filter struct {
	Categories             []Category
	Difficulties           []Difficulty
	MaxMinutes             *int
	Search                 string
	Tags                   []string
	ExcludeContextRequired bool
}

// FilterQuestions returns the questions matching every criterion of f, in
// catalog order. The input slice is not modified.
func FilterQuestions(questions []Question, f Filter) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if f.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

func (f Filter) Matches(q Question) bool {
	return f.matchCategory(q) &&
		f.matchDifficulty(q) &&
		f.matchTime(q) &&
		f.matchSearch(q) &&
		f.matchTags(q) &&
		f.matchContext(q)
}

func (f Filter) matchCategory(q Question) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == q.Category {
			return true
		}
	}
	return false
}

func (f Filter) matchDifficulty(q Question) bool {
	if len(f.Difficulties) == 0 {
		return true
	}
	for _, d := range f.Difficulties {
		if d == q.Difficulty {
			return true
		}
	}
	return false
}

// A question without an estimate is never excluded by a time limit.
func (f Filter) matchTime(q Question) bool {
	if f.MaxMinutes == nil || q.EstimatedMinutes == nil {
		return true
	}
	return *q.EstimatedMinutes <= *f.MaxMinutes
}

func (f Filter) matchSearch(q Question) bool {
	needle := strings.ToLower(f.Search)
	if needle == "" {
		return true
	}
	haystack := strings.ToLower(q.Prompt + " " + q.Context + " " + strings.Join(q.Tags, " "))
	return strings.Contains(haystack, needle)
}

func (f Filter) matchTags(q Question) bool {
	if len(f.Tags) == 0 {
		return true
	}
	for _, want := range f.Tags {
		for _, have := range q.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

func (f Filter) matchContext(q Question) bool {
	return !f.ExcludeContextRequired || !q.RequiresContext
}
