package domain

import (
	"fmt"
	"time"

	"pmdrill/internal/platform/markdown"
	"pmdrill/internal/platform/slug"
)

// ExportBlock delimits the generated part of a markdown export. Notes the
// user writes around it survive re-exports.
var ExportBlock = markdown.NewBlock("session")

type ExportQuestion struct {
	ID         string `json:"id" yaml:"id"`
	Prompt     string `json:"prompt" yaml:"prompt"`
	Category   string `json:"category" yaml:"category"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
}

type ExportResponse struct {
	QuestionID  string    `json:"questionId" yaml:"question_id"`
	Content     string    `json:"content" yaml:"content"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	DurationSec int       `json:"duration" yaml:"duration"`
}

// Export is the serializable snapshot handed to export sinks.
type Export struct {
	ID          string           `json:"id"`
	StartTime   time.Time        `json:"startTime"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	DurationSec int              `json:"durationSec"`
	Questions   []ExportQuestion `json:"questions"`
	Responses   []ExportResponse `json:"responses"`
}

func BuildExport(e Entry) Export {
	out := Export{
		ID:          e.ID,
		StartTime:   e.StartTime,
		DurationSec: int(e.Duration().Seconds()),
		Questions:   make([]ExportQuestion, 0, len(e.Questions)),
		Responses:   make([]ExportResponse, 0, len(e.Responses)),
	}
	if e.EndTime != nil {
		end := *e.EndTime
		out.EndTime = &end
	}
	for _, q := range e.Questions {
		out.Questions = append(out.Questions, ExportQuestion{ID: q.ID, Prompt: q.Prompt, Category: q.Category, Difficulty: q.Difficulty})
	}
	for _, r := range e.Responses {
		out.Responses = append(out.Responses, ExportResponse{QuestionID: r.QuestionID, Content: r.Content, Timestamp: r.Timestamp, DurationSec: r.DurationSec})
	}
	return out
}

// ExportFilename names an export after its start time, id prefix and first
// question.
func ExportFilename(e Entry, ext string) string {
	id := slug.Make(e.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	topic := "session"
	if len(e.Questions) > 0 {
		topic = slug.Short(e.Questions[0].Prompt, 40)
	}
	return fmt.Sprintf("pmdrill-%s-%s-%s.%s", e.StartTime.UTC().Format("2006-01-02-1504"), id, topic, ext)
}
