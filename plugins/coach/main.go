package main

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	coachrpc "pmdrill/internal/modules/coach/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type template struct {
	prompt    string
	framework []string
	followUps []string
	minutes   int32
}

// bank holds prompt templates per category; %s is replaced by the topic.
var bank = map[string][]template{
	"strategy": {
		{prompt: "Should a company known for %s enter an adjacent market? Walk through how you would decide.", framework: []string{"Goals", "Market", "Capabilities", "Risks"}, followUps: []string{"What would make you say no?"}, minutes: 20},
		{prompt: "A competitor just launched a free version of %s. How do you respond?", framework: []string{"Goals", "Users", "Options", "Tradeoffs"}, minutes: 15},
	},
	"design": {
		{prompt: "Design a product that makes %s easier for first-time users.", framework: []string{"Users", "Needs", "Solutions", "Metrics"}, followUps: []string{"How would you test it?"}, minutes: 20},
		{prompt: "Redesign the onboarding for %s.", framework: []string{"Users", "Pain points", "Prioritize", "Metrics"}, minutes: 15},
	},
	"technical": {
		{prompt: "Explain to an executive how %s works and where it could fail.", framework: []string{"Components", "Tradeoffs", "Risks"}, minutes: 10},
	},
	"analytics": {
		{prompt: "Engagement for %s dropped 15%% week over week. How do you investigate?", framework: []string{"Clarify", "Segment", "Hypotheses", "Metrics"}, followUps: []string{"Which data would you pull first?"}, minutes: 15},
		{prompt: "Define the north star metric for %s.", framework: []string{"Goals", "Metrics", "Guardrails"}, minutes: 10},
	},
	"leadership": {
		{prompt: "Your team disagrees with engineering about the %s roadmap. What do you do?", framework: []string{"Situation", "Task", "Action", "Result"}, minutes: 10},
	},
	"case-study": {
		{prompt: "A startup building %s has six months of runway. What should they focus on?", framework: []string{"Goals", "Users", "Metrics", "Risks"}, minutes: 25},
	},
	"behavioral": {
		{prompt: "Tell me about a time you shipped something related to %s that did not go as planned.", framework: []string{"Situation", "Task", "Action", "Result"}, minutes: 10},
	},
	"estimation": {
		{prompt: "Estimate the annual market size for %s in the United States.", framework: []string{"Assumptions", "Segments", "Calculation", "Sanity check"}, minutes: 15},
	},
	"prioritization": {
		{prompt: "You have ten feature requests for %s and capacity for two. How do you choose?", framework: []string{"Goals", "Impact", "Effort", "Tradeoffs"}, minutes: 15},
	},
	"market-research": {
		{prompt: "How would you validate demand for %s before building anything?", framework: []string{"Hypotheses", "Users", "Experiments", "Metrics"}, minutes: 15},
	},
}

var categoryOrder = []string{"strategy", "design", "technical", "analytics", "leadership", "case-study", "behavioral", "estimation", "prioritization", "market-research"}

var defaultKeywords = []string{"user", "goal", "metric", "tradeoff", "risk"}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *coachrpc.Empty) (*coachrpc.Metadata, error) {
	return &coachrpc.Metadata{
		Name:         "coach",
		Version:      "1.0.0",
		Capabilities: []string{"question", "analyze"},
	}, nil
}

func (s *server) GenerateQuestion(_ context.Context, in *coachrpc.QuestionRequest) (*coachrpc.Question, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = "a ride-sharing app"
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "intermediate"
	}
	seed := fingerprint(in.Category, difficulty, topic)
	category := in.Category
	if category == "" {
		category = categoryOrder[seed%uint32(len(categoryOrder))]
	}
	templates, ok := bank[category]
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", category)
	}
	tpl := templates[seed%uint32(len(templates))]
	return &coachrpc.Question{
		ID:               fmt.Sprintf("coach-%s-%08x", category, seed),
		Prompt:           fmt.Sprintf(tpl.prompt, topic),
		Category:         category,
		Difficulty:       difficulty,
		Framework:        tpl.framework,
		EstimatedMinutes: tpl.minutes,
		Tags:             []string{"generated", slugWord(topic)},
		FollowUps:        tpl.followUps,
	}, nil
}

func (s *server) AnalyzeResponse(_ context.Context, in *coachrpc.AnalyzeRequest) (*coachrpc.AnalyzeResponse, error) {
	raw, err := json.Marshal(analyze(in.Answer, in.Framework))
	if err != nil {
		return nil, err
	}
	return &coachrpc.AnalyzeResponse{AnalysisJSON: string(raw)}, nil
}

type analysis struct {
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// analyze scores length (4 points), structure (3) and keyword coverage (3).
func analyze(answer string, framework []string) analysis {
	out := analysis{Strengths: []string{}, Weaknesses: []string{}, Suggestions: []string{}}
	words := len(strings.Fields(answer))
	lengthScore := math.Min(float64(words)/150, 1) * 4
	switch {
	case words >= 150:
		out.Strengths = append(out.Strengths, "Thorough answer with enough depth to follow the reasoning.")
	case words < 40:
		out.Weaknesses = append(out.Weaknesses, "The answer is short; key steps are likely missing.")
		out.Suggestions = append(out.Suggestions, "Talk through each step of your approach out loud.")
	}

	structured := 0
	paragraphs := 0
	for _, block := range strings.Split(answer, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs++
		}
	}
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || (trimmed != "" && unicode.IsDigit(rune(trimmed[0]))) {
			structured++
		}
	}
	structureScore := math.Min(float64(structured+max(paragraphs-1, 0)), 3)
	if structureScore >= 2 {
		out.Strengths = append(out.Strengths, "Clear structure that is easy to follow.")
	} else {
		out.Weaknesses = append(out.Weaknesses, "Little visible structure.")
		out.Suggestions = append(out.Suggestions, "Use a framework and signpost each section.")
	}

	keywords := framework
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	lower := strings.ToLower(answer)
	covered := 0
	var missing []string
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			covered++
		} else {
			missing = append(missing, keyword)
		}
	}
	coverageScore := float64(covered) / float64(len(keywords)) * 3
	if covered > 0 {
		out.Strengths = append(out.Strengths, fmt.Sprintf("Covers %d of %d expected areas.", covered, len(keywords)))
	}
	if len(missing) > 0 {
		out.Weaknesses = append(out.Weaknesses, "Missing: "+strings.Join(missing, ", ")+".")
		out.Suggestions = append(out.Suggestions, fmt.Sprintf("Address %s explicitly.", strings.ToLower(missing[0])))
	}

	out.Score = math.Round((lengthScore+structureScore+coverageScore)*2) / 2
	return out
}

func fingerprint(parts ...string) uint32 {
	h := fnv.New32a()
	for _, part := range parts {
		_, _ = h.Write([]byte(strings.ToLower(part)))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum32()
}

func slugWord(topic string) string {
	fields := strings.Fields(strings.ToLower(topic))
	if len(fields) == 0 {
		return "topic"
	}
	return strings.Trim(fields[len(fields)-1], ".,!?")
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: coachrpc.HandshakeConfig,
		Plugins:         coachrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
