package domain

import (
	"slices"
	"sort"
	"time"
)

const SchemaVersion = 1

type Question struct {
	ID               string   `json:"id"`
	Prompt           string   `json:"prompt"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Context          string   `json:"context,omitempty"`
	Framework        []string `json:"framework,omitempty"`
	EstimatedMinutes *int     `json:"estimatedMinutes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	FollowUps        []string `json:"followUps,omitempty"`
	RequiresContext  bool     `json:"requiresContext,omitempty"`
}

type Response struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"questionId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	DurationSec int       `json:"duration"`
}

// Entry is an archived session, independent of the live one it was copied from.
type Entry struct {
	ID           string     `json:"id"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentQuestionIndex"`
	Responses    []Response `json:"responses"`
	Status       string     `json:"status"`
}

func (e Entry) Duration() time.Duration {
	if e.EndTime == nil {
		return 0
	}
	if d := e.EndTime.Sub(e.StartTime); d > 0 {
		return d
	}
	return 0
}

func (e Entry) Clone() Entry {
	out := e
	if e.EndTime != nil {
		end := *e.EndTime
		out.EndTime = &end
	}
	out.Questions = make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Framework = slices.Clone(q.Framework)
		q.Tags = slices.Clone(q.Tags)
		q.FollowUps = slices.Clone(q.FollowUps)
		if q.EstimatedMinutes != nil {
			v := *q.EstimatedMinutes
			q.EstimatedMinutes = &v
		}
		out.Questions[i] = q
	}
	out.Responses = slices.Clone(e.Responses)
	return out
}

// Upsert replaces the entry with the same id in place, or appends.
func Upsert(entries []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	replaced := false
	for _, e := range entries {
		if e.ID == entry.ID {
			out = append(out, entry.Clone())
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, entry.Clone())
	}
	return out
}

// Remove drops every entry with id. removed is false when none matched.
func Remove(entries []Entry, id string) (out []Entry, removed bool) {
	out = make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == id {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out, removed
}

func Find(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return Entry{}, false
}

// SortedByStart returns a copy ordered most recent first. Ties keep storage
// order.
func SortedByStart(entries []Entry) []Entry {
	out := slices.Clone(entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}
