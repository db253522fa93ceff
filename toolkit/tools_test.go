package toolkit

import (
	"context"
	"strings"
	"testing"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// userPrompt returns the text of the last message of the only recorded call.
func userPrompt(t *testing.T, llm *tt.MockLLM) string {
	t.Helper()
	calls := llm.Calls()
	require.NotEmpty(t, calls)
	msgs := calls[len(calls)-1].Messages
	require.NotEmpty(t, msgs)
	part, ok := msgs[len(msgs)-1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestGenerateBrief(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse("```json\n" + `{
  "company": {"name": "Stripe", "website": "https://stripe.com", "industry": "Payments", "size": "8000", "headquarters": "San Francisco"},
  "keyPeople": [{"name": "Patrick Collison", "title": "CEO", "background": "Co-founder"}],
  "businessModel": {"description": "Payment processing", "revenue": "Unknown", "keyProducts": ["Payments", "Connect"]},
  "painPoints": ["Fraud"],
  "talkingPoints": ["Global expansion"],
  "competitiveLandscape": ["Adyen"],
  "recentNews": []
}` + "\n```")

	brief, err := newTestService(llm).GenerateBrief(context.Background(), "  Stripe ")
	require.NoError(t, err)

	assert.Equal(t, "Stripe", brief.Company.Name)
	assert.Equal(t, []Person{{Name: "Patrick Collison", Title: "CEO", Background: "Co-founder"}}, brief.KeyPeople)
	assert.Equal(t, []string{"Payments", "Connect"}, brief.BusinessModel.KeyProducts)
	assert.Empty(t, brief.RecentNews)
	assert.Contains(t, userPrompt(t, llm), `company brief for "Stripe"`)
}

func TestGenerateBrief_Validation(t *testing.T) {
	tests := []struct {
		name    string
		company string
		reply   string
		wantErr error
	}{
		{name: "blank company", company: " \t", wantErr: revkit.ErrEmptyInput},
		{name: "company missing", company: "Acme", reply: `{"painPoints": []}`, wantErr: revkit.ErrInvalidJSON},
		{name: "wrong type", company: "Acme", reply: `{"company": {"name": "Acme"}, "painPoints": "none"}`, wantErr: revkit.ErrInvalidJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := tt.NewMockLLM()
			if tc.reply != "" {
				llm.AddResponse(tc.reply)
			}
			_, err := newTestService(llm).GenerateBrief(context.Background(), tc.company)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.reply == "" {
				assert.Zero(t, llm.CallCount())
			}
		})
	}
}

func TestAnswerObjection(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse(`Sure! {"answer": {"bullets": ["ROI in 3 months"], "caveat": "", "talkTrack": "I hear you."},
"citations": [{"title": "Pricing", "page": 2}], "context": [{"title": "Pricing", "page": 2, "excerpt": "..."}]} Hope that helps.`)

	answer, err := newTestService(llm).AnswerObjection(context.Background(),
		"Too expensive", []string{"Document: Pricing", "  ", "Document: Case study"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ROI in 3 months"}, answer.Answer.Bullets)
	assert.Equal(t, []Citation{{Title: "Pricing", Page: 2}}, answer.Citations)

	prompt := userPrompt(t, llm)
	assert.True(t, strings.HasPrefix(prompt, "Context from knowledge base:\nDocument: Pricing\n\nDocument: Case study\n\n"))
	assert.Contains(t, prompt, `"Too expensive"`)
}

func TestAnswerObjection_NoDocuments(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse(`{"answer": {"bullets": []}}`)
	_, err := newTestService(llm).AnswerObjection(context.Background(), "Why now?", nil)
	require.NoError(t, err)
	assert.NotContains(t, userPrompt(t, llm), "knowledge base")
}

func TestGenerateBattlecard(t *testing.T) {
	reply := `{
  "competitivePositioning": {"ourStrengths": ["Speed"], "competitorWeaknesses": ["Price"], "differentiators": ["API"]},
  "objectionHandling": [{"objection": "No SSO", "response": "Roadmap Q3", "evidence": "Public roadmap"}],
  "talkTracks": {"SDR": ["Open with speed"], "AE": ["Lead with ROI"]},
  "featureComparison": [{"feature": "SSO", "us": "Yes", "competitors": {"Competitor A": "Enterprise only"}}]
}`

	type input struct {
		req BattlecardRequest
	}

	type expected struct {
		err      error
		personas string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "default persona",
			input: input{req: BattlecardRequest{
				OurSummary:  "Fast onboarding",
				Competitors: []Competitor{{Name: "Competitor A", Description: "Premium pricing"}},
			}},
			expected: expected{personas: "Target personas: AE"},
		},
		{
			name: "personas normalized",
			input: input{req: BattlecardRequest{
				OurSummary:  "Fast onboarding",
				Competitors: []Competitor{{Name: "Competitor A"}, {}},
				Personas:    []string{"sdr", " AE", "SDR", ""},
			}},
			expected: expected{personas: "Target personas: SDR, AE"},
		},
		{
			name:     "missing summary",
			input:    input{req: BattlecardRequest{Competitors: []Competitor{{Name: "A"}}}},
			expected: expected{err: revkit.ErrEmptyInput},
		},
		{
			name:     "only blank competitors",
			input:    input{req: BattlecardRequest{OurSummary: "x", Competitors: []Competitor{{Name: " "}}}},
			expected: expected{err: revkit.ErrEmptyInput},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := tt.NewMockLLM().AddResponse(reply)
			card, err := newTestService(llm).GenerateBattlecard(context.Background(), tc.input.req)

			if tc.expected.err != nil {
				assert.ErrorIs(t, err, tc.expected.err)
				assert.Zero(t, llm.CallCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"Lead with ROI"}, card.TalkTracks["AE"])
			assert.Equal(t, "Enterprise only", card.FeatureComparison[0].Competitors["Competitor A"])

			prompt := userPrompt(t, llm)
			assert.Contains(t, prompt, tc.expected.personas)
			assert.Contains(t, prompt, `Competitors: [{"title":"Competitor A"`)
		})
	}
}

func TestGenerateBattlecard_TalkTrackShape(t *testing.T) {
	llm := tt.NewMockLLM().AddResponse(`{"competitivePositioning": {}, "talkTracks": {"AE": "not a list"}}`)
	_, err := newTestService(llm).GenerateBattlecard(context.Background(), BattlecardRequest{
		OurSummary:  "x",
		Competitors: []Competitor{{Name: "A"}},
	})
	assert.ErrorIs(t, err, revkit.ErrInvalidJSON)
}
