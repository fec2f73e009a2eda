package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pmdrill/internal/modules/history/domain"
	"pmdrill/internal/platform/markdown"
)

type exportMeta struct {
	SchemaVersion int      `yaml:"schema_version"`
	ID            string   `yaml:"id"`
	StartedAt     string   `yaml:"started_at"`
	EndedAt       string   `yaml:"ended_at,omitempty"`
	DurationSec   int      `yaml:"duration_sec"`
	Questions     int      `yaml:"questions"`
	Responses     int      `yaml:"responses"`
	Categories    []string `yaml:"categories,omitempty"`
}

func encodeJSON(exp domain.Export) ([]byte, error) {
	payload, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(payload, '\n'), nil
}

func encodeMarkdown(exp domain.Export) ([]byte, error) {
	meta := exportMeta{
		SchemaVersion: domain.SchemaVersion,
		ID:            exp.ID,
		StartedAt:     exp.StartTime.Format(time.RFC3339),
		DurationSec:   exp.DurationSec,
		Questions:     len(exp.Questions),
		Responses:     len(exp.Responses),
	}
	if exp.EndTime != nil {
		meta.EndedAt = exp.EndTime.Format(time.RFC3339)
	}
	seen := map[string]bool{}
	for _, q := range exp.Questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			meta.Categories = append(meta.Categories, q.Category)
		}
	}

	rendered, err := markdown.RenderFrontmatter(meta, markdownBody(exp))
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

func markdownBody(exp domain.Export) string {
	body := fmt.Sprintf("# Interview practice %s\n\n", exp.StartTime.Format("2006-01-02 15:04"))
	return domain.ExportBlock.Replace(body, renderResponses(exp))
}

func renderResponses(exp domain.Export) string {
	answers := make(map[string]domain.ExportResponse, len(exp.Responses))
	for _, r := range exp.Responses {
		answers[r.QuestionID] = r
	}
	b := strings.Builder{}
	for i, q := range exp.Questions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %d. %s\n\n_%s · %s_\n\n", i+1, q.Prompt, q.Category, q.Difficulty)
		r, ok := answers[q.ID]
		if !ok {
			b.WriteString("_Not answered._\n")
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(r.Content, "\n"), "\n") {
			b.WriteString("> " + line + "\n")
		}
		fmt.Fprintf(&b, "\nAnswered in %s at %s.\n", time.Duration(r.DurationSec)*time.Second, r.Timestamp.Format("15:04:05"))
	}
	return b.String()
}
