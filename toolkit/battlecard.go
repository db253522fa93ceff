package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/schema"
)

// Personas the battlecard can write talk tracks for.
const (
	PersonaSDR = "SDR"
	PersonaAE  = "AE"
	PersonaCS  = "CS"
)

// Competitor is a named competitor and free-text notes about it.
type Competitor struct {
	Name        string `json:"title"`
	Description string `json:"raw"`
}

// BattlecardRequest is the Battlecard tool input. Personas defaults to AE.
type BattlecardRequest struct {
	OurSummary  string
	Competitors []Competitor
	Personas    []string
}

// Battlecard is the Battlecard tool result.
type Battlecard struct {
	CompetitivePositioning Positioning         `json:"competitivePositioning"`
	ObjectionHandling      []ObjectionResponse `json:"objectionHandling"`
	TalkTracks             map[string][]string `json:"talkTracks"`
	FeatureComparison      []FeatureComparison `json:"featureComparison"`
}

type Positioning struct {
	OurStrengths         []string `json:"ourStrengths"`
	CompetitorWeaknesses []string `json:"competitorWeaknesses"`
	Differentiators      []string `json:"differentiators"`
}

type ObjectionResponse struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
	Evidence  string `json:"evidence"`
}

type FeatureComparison struct {
	Feature     string            `json:"feature"`
	Us          string            `json:"us"`
	Competitors map[string]string `json:"competitors"`
}

var battlecardShape = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"competitivePositioning": schema.Nested("Positioning", map[string]*schema.Property{
		"ourStrengths":         schema.Array("Our strengths", schema.Items("string")),
		"competitorWeaknesses": schema.Array("Competitor weaknesses", schema.Items("string")),
		"differentiators":      schema.Array("Differentiators", schema.Items("string")),
	}),
	"objectionHandling": schema.Array("Objections", schema.Object(map[string]*schema.Property{
		"objection": schema.String("Objection"),
		"response":  schema.String("Response"),
		"evidence":  schema.String("Evidence"),
	})),
	"talkTracks": schema.Map("Talk tracks by persona", schema.Array("", schema.Items("string")).Schema()),
	"featureComparison": schema.Array("Feature comparison", schema.Object(map[string]*schema.Property{
		"feature":     schema.String("Feature"),
		"us":          schema.String("Our capability"),
		"competitors": schema.Map("Capability by competitor", schema.Items("string")),
	})),
}, "competitivePositioning"))

// GenerateBattlecard compares our product against the given competitors.
// Competitors without a name or description are dropped; at least one must
// remain.
func (s *Service) GenerateBattlecard(ctx context.Context, req BattlecardRequest) (*Battlecard, error) {
	ours, err := requireText("our summary", req.OurSummary)
	if err != nil {
		return nil, err
	}

	competitors := make([]Competitor, 0, len(req.Competitors))
	for _, c := range req.Competitors {
		c.Name = strings.TrimSpace(c.Name)
		c.Description = strings.TrimSpace(c.Description)
		if c.Name == "" && c.Description == "" {
			continue
		}
		competitors = append(competitors, c)
	}
	if len(competitors) == 0 {
		return nil, fmt.Errorf("competitors: %w", revkit.ErrEmptyInput)
	}
	payload, err := json.Marshal(competitors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode competitors: %w", err)
	}

	var card Battlecard
	err = s.generateJSON(ctx, jsonCall{
		tool:   "battlecard",
		system: jsonSystemPrompt,
		user:   battlecardPrompt(ours, string(payload), normalizePersonas(req.Personas)),
		shape:  battlecardShape,
	}, &card)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// normalizePersonas upper-cases, trims and de-duplicates personas, keeping
// their order. An empty list becomes AE.
func normalizePersonas(personas []string) []string {
	out := make([]string, 0, len(personas))
	for _, p := range personas {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{PersonaAE}
	}
	return out
}
