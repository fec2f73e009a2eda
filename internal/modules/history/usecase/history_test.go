package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	historyout "pmdrill/internal/modules/history/adapter/out"
	"pmdrill/internal/modules/history/dto"
	historyin "pmdrill/internal/modules/history/port/in"
	outport "pmdrill/internal/modules/history/port/out"
	"pmdrill/internal/modules/history/service"
	"pmdrill/internal/modules/history/usecase"
	apperrors "pmdrill/internal/platform/errors"
)

type captureSink struct {
	filename string
	payload  []byte
}

func (c *captureSink) Save(_ context.Context, filename string, payload []byte) (string, error) {
	c.filename = filename
	c.payload = payload
	return "memory://" + filename, nil
}

func record(id string, start time.Time, answered ...string) dto.SessionRecord {
	end := start.Add(12 * time.Minute)
	r := dto.SessionRecord{
		ID:        id,
		StartTime: start,
		EndTime:   &end,
		Status:    "completed",
		Questions: []dto.QuestionRecord{
			{ID: "q1", Prompt: "Design an alarm clock", Category: "design", Difficulty: "beginner"},
			{ID: "q2", Prompt: "Size the EV market", Category: "estimation", Difficulty: "advanced"},
		},
	}
	for _, qid := range answered {
		r.Responses = append(r.Responses, dto.ResponseRecord{ID: "r-" + qid, QuestionID: qid, Content: "My answer\nsecond line", Timestamp: start.Add(2 * time.Minute), DurationSec: 120})
	}
	return r
}

func newInteractor(t *testing.T, sink outport.ExportSink, projector outport.Projector) historyin.Usecase {
	t.Helper()
	svc := service.NewHistoryService(historyout.NewMemoryHistoryStore(), projector, nil)
	return usecase.NewInteractor(svc, map[dto.ExportTarget]outport.ExportSink{dto.TargetFile: sink})
}

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestRecordCompletionUpsertsAndListsNewestFirst(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &captureSink{}, nil)
	ctx := context.Background()

	for _, r := range []dto.SessionRecord{record("old", t0), record("new", t0.Add(time.Hour)), record("old", t0, "q1")} {
		if err := uc.RecordCompletion(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.ID, err)
		}
	}
	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[1].Responses != 1 || list[1].Duration != 12*time.Minute || strings.Join(list[1].Categories, ",") != "design,estimation" {
		t.Fatalf("expected latest data for old entry, got %+v", list[1])
	}
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &captureSink{}, nil)
	ctx := context.Background()
	if err := uc.RecordCompletion(ctx, record("a", t0)); err != nil {
		t.Fatalf("record: %v", err)
	}
	removed, err := uc.Remove(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("expected no-op, got %v %v", removed, err)
	}
	list, _ := uc.List(ctx)
	if len(list) != 1 {
		t.Fatalf("list length changed: %d", len(list))
	}
	removed, err = uc.Remove(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	if _, err := uc.Get(ctx, "a"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after removal, got %v", err)
	}
}

func TestExportJSONSnapshot(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	uc := newInteractor(t, sink, nil)
	ctx := context.Background()
	if err := uc.RecordCompletion(ctx, record("abc", t0, "q2")); err != nil {
		t.Fatalf("record: %v", err)
	}
	out, err := uc.Export(ctx, dto.ExportInput{ID: "abc", Format: dto.ExportJSON})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(out.Filename, ".json") || out.Location != "memory://"+out.Filename || out.Bytes != len(sink.payload) {
		t.Fatalf("unexpected export output %+v", out)
	}

	var snapshot struct {
		ID          string     `json:"id"`
		StartTime   time.Time  `json:"startTime"`
		EndTime     *time.Time `json:"endTime"`
		DurationSec int        `json:"durationSec"`
		Questions   []struct {
			ID         string `json:"id"`
			Prompt     string `json:"prompt"`
			Category   string `json:"category"`
			Difficulty string `json:"difficulty"`
		} `json:"questions"`
		Responses []struct {
			QuestionID string    `json:"questionId"`
			Content    string    `json:"content"`
			Timestamp  time.Time `json:"timestamp"`
			Duration   int       `json:"duration"`
		} `json:"responses"`
	}
	if err := json.Unmarshal(sink.payload, &snapshot); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if snapshot.ID != "abc" || !snapshot.StartTime.Equal(t0) || snapshot.EndTime == nil || snapshot.DurationSec != 720 {
		t.Fatalf("unexpected timing %+v", snapshot)
	}
	if len(snapshot.Questions) != 2 || snapshot.Questions[1].Category != "estimation" {
		t.Fatalf("unexpected questions %+v", snapshot.Questions)
	}
	if len(snapshot.Responses) != 1 || snapshot.Responses[0].QuestionID != "q2" || snapshot.Responses[0].Duration != 120 {
		t.Fatalf("unexpected responses %+v", snapshot.Responses)
	}
}

func TestExportMarkdownAndErrors(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	uc := newInteractor(t, sink, nil)
	ctx := context.Background()
	if err := uc.RecordCompletion(ctx, record("abc", t0, "q1")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := uc.Export(ctx, dto.ExportInput{ID: "abc", Format: dto.ExportMarkdown}); err != nil {
		t.Fatalf("export markdown: %v", err)
	}
	doc := string(sink.payload)
	for _, want := range []string{"schema_version: 1", "id: abc", "## 1. Design an alarm clock", "> My answer\n> second line", "_Not answered._", "Answered in 2m0s"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("markdown export missing %q:\n%s", want, doc)
		}
	}

	preview, err := uc.Preview(ctx, " abc ")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if strings.Contains(preview, "schema_version") || !strings.Contains(preview, "## 1. Design an alarm clock") {
		t.Fatalf("preview must be the body without frontmatter:\n%s", preview)
	}

	if _, err := uc.Export(ctx, dto.ExportInput{ID: "abc", Format: "pdf"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid format error, got %v", err)
	}
	if _, err := uc.Export(ctx, dto.ExportInput{ID: "abc", Target: dto.TargetClipboard}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected unavailable target error, got %v", err)
	}
	if _, err := uc.Export(ctx, dto.ExportInput{ID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStatsUsesProjection(t *testing.T) {
	t.Parallel()
	projector, err := historyout.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "pmdrill.db"))
	if err != nil {
		t.Fatalf("projector: %v", err)
	}
	t.Cleanup(func() { _ = projector.Close() })
	uc := newInteractor(t, &captureSink{}, projector)
	ctx := context.Background()
	_ = uc.RecordCompletion(ctx, record("a", t0, "q1", "q2"))
	_ = uc.RecordCompletion(ctx, record("b", t0.Add(time.Hour), "q1"))

	st, err := uc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Sessions != 2 || st.Responses != 3 || st.TotalDuration != 24*time.Minute || st.AverageAnswer != 2*time.Minute {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ProjectionPath == "" || len(st.ByCategory) != 2 || st.ByCategory[0].Answered+st.ByCategory[1].Answered != 3 {
		t.Fatalf("unexpected projection stats %+v", st)
	}
}
