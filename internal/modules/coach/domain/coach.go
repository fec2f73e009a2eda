package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Capability string

const (
	CapabilityQuestion Capability = "question"
	CapabilityAnalyze  Capability = "analyze"
)

var (
	ErrPluginNotFound    = errors.New("coach plugin not found")
	ErrPluginDisabled    = errors.New("coach plugin is disabled")
	ErrChecksumMismatch  = errors.New("coach plugin checksum mismatch")
	ErrCapabilityMissing = errors.New("coach plugin capability missing")
	ErrPluginTimeout     = errors.New("coach plugin timeout")
	ErrMalformedOutput   = errors.New("coach plugin returned malformed output")
)

const MaxScore = 10

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityQuestion, CapabilityAnalyze:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

// QuestionRequest narrows what the coach should generate. Empty fields
// leave the choice to the plugin.
type QuestionRequest struct {
	Category   string
	Difficulty string
	Topic      string
}

type Question struct {
	ID               string
	Prompt           string
	Category         string
	Difficulty       string
	Context          string
	Framework        []string
	EstimatedMinutes *int
	Tags             []string
	FollowUps        []string
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: question id is empty", ErrMalformedOutput)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question prompt is empty", ErrMalformedOutput)
	}
	return nil
}

type AnalysisRequest struct {
	QuestionID string
	Prompt     string
	Category   string
	Framework  []string
	Answer     string
}

// Key identifies an analysis by the question and the exact answer text.
func (r AnalysisRequest) Key() string {
	h := sha256.New()
	for _, part := range []string{r.QuestionID, r.Prompt, r.Answer} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Analysis struct {
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// Normalize clamps the score into [0, MaxScore] and drops blank remarks.
func (a Analysis) Normalize() Analysis {
	switch {
	case a.Score < 0:
		a.Score = 0
	case a.Score > MaxScore:
		a.Score = MaxScore
	}
	a.Strengths = compact(a.Strengths)
	a.Weaknesses = compact(a.Weaknesses)
	a.Suggestions = compact(a.Suggestions)
	return a
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
