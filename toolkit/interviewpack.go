package toolkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/schema"
)

// InterviewPack is the Interview Pack result. The model is free to leave
// fields out; Markdown skips whatever is empty.
type InterviewPack struct {
	Query            string         `json:"query"`
	ExecutiveSummary string         `json:"executive_summary"`
	QuickFacts       []string       `json:"quick_facts"`
	CompanySummary   CompanySummary `json:"company_summary"`
	ProductArea      ProductArea    `json:"product_area"`
	InterviewPlan    InterviewPlan  `json:"interview_plan"`
	PreWork          PreWork        `json:"pre_work"`
	Sources          []Source       `json:"sources"`
}

type CompanySummary struct {
	Overview      string   `json:"overview"`
	RecentSignals []string `json:"recent_signals"`
	KeyMetrics    []string `json:"key_metrics"`
}

type ProductArea struct {
	Scope           string   `json:"scope"`
	Users           []string `json:"users"`
	Differentiators []string `json:"differentiators"`
	Risks           []string `json:"risks"`
}

type InterviewPlan struct {
	ScreeningQuestions []string          `json:"screening_questions"`
	DeepDiveQuestions  []string          `json:"deep_dive_questions"`
	CaseStudyPrompt    string            `json:"case_study_prompt"`
	EvaluationRubric   []RubricCriterion `json:"evaluation_rubric"`
}

type RubricCriterion struct {
	Competency        string `json:"competency"`
	WhatGoodLooksLike string `json:"what_good_looks_like"`
}

type PreWork struct {
	AnalysisOutline []string `json:"analysis_outline"`
	AssetsToReview  []string `json:"assets_to_review"`
}

type Source struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	URL       string `json:"url"`
	Date      string `json:"date"`
}

// Only the top level is checked; the pack's fields are all optional.
var interviewPackShape = schema.MustCompile(schema.Object(nil))

// GenerateInterviewPack researches a role and returns an interview
// preparation pack. With web search enabled the ":online" model is tried
// first and the plain model is used if that request fails.
func (s *Service) GenerateInterviewPack(ctx context.Context, query string) (*InterviewPack, error) {
	query, err := requireText("query", query)
	if err != nil {
		return nil, err
	}

	var pack InterviewPack
	err = s.generateJSON(ctx, jsonCall{
		tool:   "interview",
		system: interviewPackSystemPrompt,
		user:   query,
		shape:  interviewPackShape,
		search: true,
	}, &pack)
	if err != nil {
		return nil, err
	}
	if pack.Query == "" {
		pack.Query = query
	}
	return &pack, nil
}

// Markdown writes the pack as a report with one "## " section per part, in
// the layout the section renderer understands.
func (p *InterviewPack) Markdown() string {
	var md markdownWriter
	fmt.Fprintf(&md.sb, "# Interview Pack: %s\n", p.Query)

	if p.ExecutiveSummary != "" {
		md.section("Executive Summary")
		md.paragraph(p.ExecutiveSummary)
	}
	if len(p.QuickFacts) > 0 {
		md.section("Quick Facts")
		md.bullets(p.QuickFacts)
	}

	cs := p.CompanySummary
	if cs.Overview != "" || len(cs.RecentSignals) > 0 || len(cs.KeyMetrics) > 0 {
		md.section("Company Summary")
		md.paragraph(cs.Overview)
		md.list("Recent signals", cs.RecentSignals)
		md.list("Key metrics", cs.KeyMetrics)
	}

	pa := p.ProductArea
	if pa.Scope != "" || len(pa.Users) > 0 || len(pa.Differentiators) > 0 || len(pa.Risks) > 0 {
		md.section("Product Area")
		md.paragraph(pa.Scope)
		md.list("Users", pa.Users)
		md.list("Differentiators", pa.Differentiators)
		md.list("Risks", pa.Risks)
	}

	ip := p.InterviewPlan
	if len(ip.ScreeningQuestions) > 0 || len(ip.DeepDiveQuestions) > 0 || ip.CaseStudyPrompt != "" || len(ip.EvaluationRubric) > 0 {
		md.section("Interview Plan")
		md.list("Screening questions", ip.ScreeningQuestions)
		md.list("Deep dive questions", ip.DeepDiveQuestions)
		if ip.CaseStudyPrompt != "" {
			md.subheading("Case study")
			md.paragraph(ip.CaseStudyPrompt)
		}
		if len(ip.EvaluationRubric) > 0 {
			md.subheading("Evaluation rubric")
			rows := make([][]string, len(ip.EvaluationRubric))
			for i, r := range ip.EvaluationRubric {
				rows[i] = []string{r.Competency, r.WhatGoodLooksLike}
			}
			md.table([]string{"Competency", "What good looks like"}, rows)
		}
	}

	if len(p.PreWork.AnalysisOutline) > 0 || len(p.PreWork.AssetsToReview) > 0 {
		md.section("Pre-work")
		md.list("Analysis outline", p.PreWork.AnalysisOutline)
		md.list("Assets to review", p.PreWork.AssetsToReview)
	}

	if len(p.Sources) > 0 {
		md.section("Sources")
		rows := make([][]string, len(p.Sources))
		for i, s := range p.Sources {
			rows[i] = []string{s.Title, s.Publisher, s.URL, s.Date}
		}
		md.table([]string{"Title", "Publisher", "URL", "Date"}, rows)
	}

	return md.sb.String()
}

type markdownWriter struct {
	sb strings.Builder
}

func (w *markdownWriter) section(title string) {
	fmt.Fprintf(&w.sb, "\n## %s\n", title)
}

func (w *markdownWriter) subheading(title string) {
	fmt.Fprintf(&w.sb, "\n### %s\n", title)
}

func (w *markdownWriter) paragraph(text string) {
	if text = strings.TrimSpace(text); text != "" {
		fmt.Fprintf(&w.sb, "\n%s\n", oneLine(text))
	}
}

func (w *markdownWriter) bullets(items []string) {
	w.sb.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&w.sb, "- %s\n", oneLine(item))
	}
}

func (w *markdownWriter) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.subheading(title)
	w.bullets(items)
}

func (w *markdownWriter) table(headers []string, rows [][]string) {
	w.sb.WriteString("\n")
	w.row(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.row(sep)
	for _, r := range rows {
		w.row(r)
	}
}

func (w *markdownWriter) row(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(oneLine(c), "|", "/")
		if c == "" {
			c = revkit.Placeholder
		}
		escaped[i] = c
	}
	fmt.Fprintf(&w.sb, "| %s |\n", strings.Join(escaped, " | "))
}

// oneLine joins text onto a single line so it stays inside its block.
func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
