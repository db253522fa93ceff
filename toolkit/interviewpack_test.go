package toolkit

import (
	"context"
	"testing"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/format"
	"github.com/revkit/revkit/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInterviewPack(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse(`{
  "executive_summary": "Connect powers platforms.",
  "quick_facts": ["**Founded:** 2010", "**HQ:** San Francisco"],
  "company_summary": {"overview": "Payments infrastructure.", "recent_signals": ["New CFO"], "key_metrics": []},
  "interview_plan": {"screening_questions": ["Why Stripe?"], "evaluation_rubric": [{"competency": "Product sense", "what_good_looks_like": "Clear | crisp tradeoffs"}]},
  "sources": [{"title": "10-K", "publisher": "SEC", "url": "https://sec.gov", "date": ""}],
  "extra_field": {"ignored": true}
}`)

	pack, err := newTestService(llm).GenerateInterviewPack(context.Background(), "Senior PM at Stripe for Connect")
	require.NoError(t, err)

	assert.Equal(t, "Senior PM at Stripe for Connect", pack.Query)
	assert.Equal(t, []string{"New CFO"}, pack.CompanySummary.RecentSignals)
	assert.Equal(t, "Product sense", pack.InterviewPlan.EvaluationRubric[0].Competency)

	calls := llm.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, revkit.DefaultJSONModel+revkit.OnlineSuffix, calls[0].Options.Model)
	assert.Equal(t, "Senior PM at Stripe for Connect", userPrompt(t, llm))
}

func TestGenerateInterviewPack_NotAnObject(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse(`["a", "b"]`)
	_, err := newTestService(llm).GenerateInterviewPack(context.Background(), "PM at Acme")
	assert.ErrorIs(t, err, revkit.ErrInvalidJSON)
}

func TestInterviewPack_Markdown(t *testing.T) {
	pack := &InterviewPack{
		Query:            "PM at Acme",
		ExecutiveSummary: "Acme builds\nrockets.",
		QuickFacts:       []string{"**Founded:** 1949", "**HQ:**"},
		InterviewPlan: InterviewPlan{
			ScreeningQuestions: []string{"Why Acme?"},
			CaseStudyPrompt:    "Design a launch plan.",
			EvaluationRubric: []RubricCriterion{
				{Competency: "Execution", WhatGoodLooksLike: "Ships | iterates"},
			},
		},
		Sources: []Source{{Title: "Annual report", URL: "https://acme.example"}},
	}

	sections := format.Sections(pack.Markdown())
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Executive Summary", "Quick Facts", "Interview Plan", "Sources"}, titles)

	assert.Equal(t, []revkit.Block{
		revkit.Paragraph{Text: "Acme builds rockets."},
	}, format.Render(sections[0].Body))

	assert.Equal(t, []revkit.Block{
		revkit.KeyValueList{Pairs: []revkit.Pair{
			{Label: "Founded", Value: "1949"},
			{Label: "HQ", Value: ""},
		}},
	}, format.Render(sections[1].Body))

	plan := format.Render(sections[2].Body)
	require.Len(t, plan, 6)
	assert.Equal(t, revkit.Subheading{Text: "Screening questions"}, plan[0])
	assert.Equal(t, revkit.Table{
		Headers: []string{"Competency", "What good looks like"},
		Rows:    [][]string{{"Execution", "Ships / iterates"}},
	}, plan[5])

	assert.Equal(t, []revkit.Block{
		revkit.Table{
			Headers: []string{"Title", "Publisher", "URL", "Date"},
			Rows:    [][]string{{"Annual report", revkit.Placeholder, "https://acme.example", revkit.Placeholder}},
		},
	}, format.Render(sections[3].Body))
}
