package dto

import "time"

type QuestionRecord struct {
	ID               string
	Prompt           string
	Category         string
	Difficulty       string
	Context          string
	Framework        []string
	EstimatedMinutes *int
	Tags             []string
	FollowUps        []string
	RequiresContext  bool
}

type ResponseRecord struct {
	ID          string
	QuestionID  string
	Content     string
	Timestamp   time.Time
	DurationSec int
}

// SessionRecord is a completed session as handed over for archiving.
type SessionRecord struct {
	ID           string
	StartTime    time.Time
	EndTime      *time.Time
	Status       string
	CurrentIndex int
	Questions    []QuestionRecord
	Responses    []ResponseRecord
}

type EntryOutput struct {
	ID         string
	StartTime  time.Time
	EndTime    *time.Time
	Duration   time.Duration
	Questions  int
	Responses  int
	Categories []string
}

type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportMarkdown ExportFormat = "markdown"
)

type ExportTarget string

const (
	TargetFile      ExportTarget = "file"
	TargetClipboard ExportTarget = "clipboard"
)

type ExportInput struct {
	ID     string
	Format ExportFormat
	Target ExportTarget
}

type ExportOutput struct {
	ID       string
	Filename string
	Location string
	Bytes    int
}

type CategoryCount struct {
	Category  string
	Questions int
	Answered  int
}

type StatsOutput struct {
	Sessions       int
	Questions      int
	Responses      int
	TotalDuration  time.Duration
	AverageAnswer  time.Duration
	ByCategory     []CategoryCount
	LastSessionAt  *time.Time
	ProjectionPath string
}
