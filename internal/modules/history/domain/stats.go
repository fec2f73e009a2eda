package domain

import (
	"sort"
	"time"
)

type CategoryCount struct {
	Category  string
	Questions int
	Answered  int
}

type Stats struct {
	Sessions      int
	Questions     int
	Responses     int
	TotalDuration time.Duration
	AnswerTime    time.Duration
	ByCategory    []CategoryCount
	LastSessionAt *time.Time
}

func Summarize(entries []Entry) Stats {
	st := Stats{Sessions: len(entries)}
	counts := map[string]*CategoryCount{}
	for _, e := range entries {
		st.Questions += len(e.Questions)
		st.Responses += len(e.Responses)
		st.TotalDuration += e.Duration()
		if st.LastSessionAt == nil || e.StartTime.After(*st.LastSessionAt) {
			start := e.StartTime
			st.LastSessionAt = &start
		}
		answered := map[string]bool{}
		for _, r := range e.Responses {
			answered[r.QuestionID] = true
			st.AnswerTime += time.Duration(r.DurationSec) * time.Second
		}
		for _, q := range e.Questions {
			c, ok := counts[q.Category]
			if !ok {
				c = &CategoryCount{Category: q.Category}
				counts[q.Category] = c
			}
			c.Questions++
			if answered[q.ID] {
				c.Answered++
			}
		}
	}
	for _, c := range counts {
		st.ByCategory = append(st.ByCategory, *c)
	}
	SortCategoryCounts(st.ByCategory)
	return st
}

// SortCategoryCounts orders by question count descending, then name.
func SortCategoryCounts(counts []CategoryCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Questions != counts[j].Questions {
			return counts[i].Questions > counts[j].Questions
		}
		return counts[i].Category < counts[j].Category
	})
}
