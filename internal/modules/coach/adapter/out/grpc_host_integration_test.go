package out_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	coachout "pmdrill/internal/modules/coach/adapter/out"
	"pmdrill/internal/modules/coach/domain"
)

func TestGRPCHostIntegrationCoachPlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the coach plugin")
	}
	binPath := buildCoachPlugin(t)
	manifest := domain.Manifest{
		Name:         "coach",
		Version:      "1.0.0",
		Binary:       binPath,
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityQuestion, domain.CapabilityAnalyze},
	}

	host := coachout.NewGRPCHost(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	metadata, err := host.GetMetadata(ctx, manifest)
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if metadata.Name != "coach" || len(metadata.Capabilities) != 2 {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}

	first, err := host.GenerateQuestion(ctx, manifest, domain.QuestionRequest{Category: "strategy", Topic: "pricing"})
	if err != nil {
		t.Fatalf("generate question: %v", err)
	}
	second, err := host.GenerateQuestion(ctx, manifest, domain.QuestionRequest{Category: "strategy", Topic: "pricing"})
	if err != nil {
		t.Fatalf("generate question again: %v", err)
	}
	if first.Prompt == "" || first.ID != second.ID {
		t.Fatalf("expected deterministic question, got %+v and %+v", first, second)
	}
	if first.Category != "strategy" {
		t.Fatalf("expected requested category, got %s", first.Category)
	}

	raw, err := host.Analyze(ctx, manifest, domain.AnalysisRequest{
		QuestionID: first.ID,
		Prompt:     first.Prompt,
		Category:   first.Category,
		Framework:  []string{"Goals", "Metrics"},
		Answer:     "Goals: grow revenue.\n- Segment users\n- Pick metrics: conversion and churn.",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		t.Fatalf("decode analysis %q: %v", raw, err)
	}
	if analysis.Score <= 0 || analysis.Score > domain.MaxScore {
		t.Fatalf("score out of range: %v", analysis.Score)
	}
}

func buildCoachPlugin(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "coach-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/coach")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build coach plugin: %v\n%s", err, string(out))
	}
	if _, err := os.Stat(binPath); err != nil {
		t.Fatalf("stat built plugin: %v", err)
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
