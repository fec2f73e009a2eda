package dto

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type QuestionInput struct {
	Category   string
	Difficulty string
	Topic      string
}

type QuestionOutput struct {
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

type AnalyzeInput struct {
	QuestionID string
	Prompt     string
	Category   string
	Framework  []string
	Answer     string
}

type AnalysisOutput struct {
	Score       float64
	MaxScore    int
	Strengths   []string
	Weaknesses  []string
	Suggestions []string
	Cached      bool
}
