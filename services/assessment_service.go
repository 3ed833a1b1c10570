package services

import (
	"fmt"
	"strings"
)

type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type Option struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

type band struct {
	max   int
	label string
}

type Assessment struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Options   []Option   `json:"options"`

	bands []band
}

type AssessmentResult struct {
	ID       string `json:"id"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Severity string `json:"severity"`
}

var frequencyOptions = []Option{
	{Label: "Not at all", Score: 0},
	{Label: "Several days", Score: 1},
	{Label: "More than half the days", Score: 2},
	{Label: "Nearly every day", Score: 3},
}

func questions(texts ...string) []Question {
	qs := make([]Question, len(texts))
	for i, t := range texts {
		qs[i] = Question{ID: i + 1, Text: t}
	}
	return qs
}

var assessments = map[string]*Assessment{
	"depression": {
		ID:    "depression",
		Title: "Depression (PHQ-9)",
		Questions: questions(
			"Little interest or pleasure in doing things",
			"Feeling down, depressed, or hopeless",
			"Trouble falling or staying asleep, or sleeping too much",
			"Feeling tired or having little energy",
			"Poor appetite or overeating",
			"Feeling bad about yourself, or that you are a failure",
			"Trouble concentrating on things",
			"Moving or speaking noticeably slowly, or being fidgety or restless",
			"Thoughts that you would be better off dead or of hurting yourself",
		),
		Options: frequencyOptions,
		bands: []band{
			{4, "Minimal depression"},
			{9, "Mild depression"},
			{14, "Moderate depression"},
			{19, "Moderately severe depression"},
			{27, "Severe depression"},
		},
	},
	"anxiety": {
		ID:    "anxiety",
		Title: "Anxiety (GAD-7)",
		Questions: questions(
			"Feeling nervous, anxious, or on edge",
			"Not being able to stop or control worrying",
			"Worrying too much about different things",
			"Trouble relaxing",
			"Being so restless that it is hard to sit still",
			"Becoming easily annoyed or irritable",
			"Feeling afraid as if something awful might happen",
		),
		Options: frequencyOptions,
		bands: []band{
			{4, "Minimal anxiety"},
			{9, "Mild anxiety"},
			{14, "Moderate anxiety"},
			{21, "Severe anxiety"},
		},
	},
}

// ListAssessments returns the questionnaires in a stable order.
func ListAssessments() []*Assessment {
	return []*Assessment{assessments["depression"], assessments["anxiety"]}
}

func GetAssessment(id string) (*Assessment, error) {
	a, ok := assessments[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, notFound("Unknown assessment.")
	}
	return a, nil
}

// ScoreAssessment sums the answers. Every question needs a score from 0 to 3.
func ScoreAssessment(id string, answers []int) (*AssessmentResult, error) {
	a, err := GetAssessment(id)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(a.Questions) {
		return nil, invalid(fmt.Sprintf("Please answer all %d questions.", len(a.Questions)))
	}

	total := 0
	for i, v := range answers {
		if v < 0 || v > 3 {
			return nil, invalid(fmt.Sprintf("Answer %d must be between 0 and 3.", i+1))
		}
		total += v
	}

	severity := a.bands[len(a.bands)-1].label
	for _, b := range a.bands {
		if total <= b.max {
			severity = b.label
			break
		}
	}
	return &AssessmentResult{
		ID:       a.ID,
		Score:    total,
		MaxScore: len(a.Questions) * 3,
		Severity: severity,
	}, nil
}
