package dto

type FilterInput struct {
	Categories             []string
	Difficulties           []string
	MaxMinutes             *int
	Search                 string
	Tags                   []string
	ExcludeContextRequired bool
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
	RequiresContext  bool
}

type ValidateOutput struct {
	Path      string
	Questions int
	Problems  []string
}

type ReloadOutput struct {
	Questions int
}
