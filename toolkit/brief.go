package toolkit

import (
	"context"

	"github.com/revkit/revkit/schema"
)

// CompanyBrief is the AutoBrief result.
type CompanyBrief struct {
	Company              CompanyFacts  `json:"company"`
	KeyPeople            []Person      `json:"keyPeople"`
	BusinessModel        BusinessModel `json:"businessModel"`
	PainPoints           []string      `json:"painPoints"`
	TalkingPoints        []string      `json:"talkingPoints"`
	CompetitiveLandscape []string      `json:"competitiveLandscape"`
	RecentNews           []string      `json:"recentNews"`
}

type CompanyFacts struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
	Size         string `json:"size"`
	Headquarters string `json:"headquarters"`
}

type Person struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Background string `json:"background"`
}

type BusinessModel struct {
	Description string   `json:"description"`
	Revenue     string   `json:"revenue"`
	KeyProducts []string `json:"keyProducts"`
}

var briefShape = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"company": schema.Nested("Company facts", map[string]*schema.Property{
		"name":         schema.String("Company name"),
		"website":      schema.String("Website URL"),
		"industry":     schema.String("Industry"),
		"size":         schema.String("Size"),
		"headquarters": schema.String("Headquarters"),
	}, "name"),
	"keyPeople": schema.Array("Key people", schema.Object(map[string]*schema.Property{
		"name":       schema.String("Full name"),
		"title":      schema.String("Job title"),
		"background": schema.String("Background"),
	})),
	"businessModel": schema.Nested("Business model", map[string]*schema.Property{
		"description": schema.String("How the company makes money"),
		"revenue":     schema.String("Revenue estimate"),
		"keyProducts": schema.Array("Key products", schema.Items("string")),
	}),
	"painPoints":           schema.Array("Pain points", schema.Items("string")),
	"talkingPoints":        schema.Array("Talking points", schema.Items("string")),
	"competitiveLandscape": schema.Array("Competitors", schema.Items("string")),
	"recentNews":           schema.Array("Recent news", schema.Items("string")),
}, "company"))

// GenerateBrief researches a company and returns a sales brief.
func (s *Service) GenerateBrief(ctx context.Context, company string) (*CompanyBrief, error) {
	company, err := requireText("company", company)
	if err != nil {
		return nil, err
	}

	var brief CompanyBrief
	err = s.generateJSON(ctx, jsonCall{
		tool:   "brief",
		system: jsonSystemPrompt,
		user:   briefPrompt(company),
		shape:  briefShape,
	}, &brief)
	if err != nil {
		return nil, err
	}
	return &brief, nil
}
