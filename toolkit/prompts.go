package toolkit

import (
	"fmt"
	"strings"
)

const jsonSystemPrompt = "You are a B2B sales research assistant. Respond with a single JSON object and nothing else."

func briefPrompt(company string) string {
	return fmt.Sprintf(`Generate a comprehensive company brief for %q. Respond with JSON in this exact format:
{
  "company": {
    "name": %q,
    "website": "https://...",
    "industry": "...",
    "size": "...",
    "headquarters": "..."
  },
  "keyPeople": [
    {"name": "...", "title": "...", "background": "..."}
  ],
  "businessModel": {
    "description": "...",
    "revenue": "...",
    "keyProducts": ["..."]
  },
  "painPoints": ["..."],
  "talkingPoints": ["..."],
  "competitiveLandscape": ["..."],
  "recentNews": ["..."]
}`, company, company)
}

func objectionPrompt(question string, documents []string) string {
	var sb strings.Builder
	if len(documents) > 0 {
		sb.WriteString("Context from knowledge base:\n")
		sb.WriteString(strings.Join(documents, "\n\n"))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, `Answer this sales objection: %q

Respond with JSON in this exact format:
{
  "answer": {
    "bullets": ["key point 1", "key point 2", "key point 3"],
    "caveat": "optional caveat or clarification",
    "talkTrack": "conversational response script"
  },
  "citations": [
    {"title": "document name", "page": 1}
  ],
  "context": [
    {"title": "document name", "page": 1, "excerpt": "relevant excerpt"}
  ]
}`, question)
	return sb.String()
}

func scoringPrompt(accountsJSON string, total int) string {
	return fmt.Sprintf(`Score these B2B accounts for sales priority (0-100). Respond with JSON in this exact format:
{
  "accounts": [
    {
      "name": "...",
      "score": 85,
      "reasoning": "explanation of score",
      "firstPlay": "recommended first action",
      "industry": "...",
      "employees": 1000,
      "region": "..."
    }
  ],
  "summary": {
    "total": %d,
    "highPriority": 0,
    "averageScore": 0
  }
}

Accounts to score: %s`, total, accountsJSON)
}

func battlecardPrompt(ours, competitorsJSON string, personas []string) string {
	return fmt.Sprintf(`Generate a competitive battlecard. Respond with JSON in this exact format:
{
  "competitivePositioning": {
    "ourStrengths": ["strength 1", "strength 2"],
    "competitorWeaknesses": ["weakness 1", "weakness 2"],
    "differentiators": ["differentiator 1", "differentiator 2"]
  },
  "objectionHandling": [
    {"objection": "common objection", "response": "how to respond", "evidence": "supporting evidence"}
  ],
  "talkTracks": {
    "SDR": ["talk track 1", "talk track 2"],
    "AE": ["talk track 1", "talk track 2"]
  },
  "featureComparison": [
    {"feature": "Feature Name", "us": "Our capability", "competitors": {"Competitor A": "Their capability"}}
  ]
}

Our product: %s
Competitors: %s
Target personas: %s`, ours, competitorsJSON, strings.Join(personas, ", "))
}

const interviewPackSystemPrompt = `
<role>
You are an interview-research assistant that produces concise, credible and structured interview preparation documents.
</role>

<objective>
Given a short query describing a role and context (for example "Senior Product Manager at Stripe for their Connect product"), research the company, the product area and the role expectations. Return a single JSON object that follows the schema below.
</objective>

<interview_pack_schema>
{
  "query": "string // the query you processed",
  "executive_summary": "string // 3-6 sentence summary of the role and business context",
  "quick_facts": ["string // 6-10 short bullets: **Label:** Value"],
  "company_summary": {
    "overview": "string",
    "recent_signals": ["string"],
    "key_metrics": ["string"]
  },
  "product_area": {
    "scope": "string",
    "users": ["string"],
    "differentiators": ["string"],
    "risks": ["string"]
  },
  "interview_plan": {
    "screening_questions": ["string"],
    "deep_dive_questions": ["string"],
    "case_study_prompt": "string",
    "evaluation_rubric": [
      {"competency": "string", "what_good_looks_like": "string"}
    ]
  },
  "pre_work": {
    "analysis_outline": ["string"],
    "assets_to_review": ["string"]
  },
  "sources": [
    {"title": "string", "publisher": "string", "url": "string", "date": "YYYY-MM-DD"}
  ]
}
</interview_pack_schema>

<rules>
- Ground claims in live web results. Prefer sources from the last 12 months; if older, include the year.
- Keep lists short, one sentence per item.
- Do not fabricate data. If unknown, omit it or state "Unknown".
- Return strictly valid JSON; no Markdown fences, no commentary.
</rules>`

const prospectSystemPrompt = "You are an elite B2B sales researcher who writes actionable, well sourced briefings."

// ProspectSectionTitles are the "## " headings the report is asked to use, in
// order.
var ProspectSectionTitles = []string{
	"🏢 Company Snapshot",
	"🧭 Strategic Position",
	"🛠️ Products & Solutions",
	"🤝 Key Buyers & Contacts",
	"😖 Pain Points & Triggers",
	"✅ Recommended Plays",
	"⚠️ Risks & Objections",
	"📚 Sources",
}

func prospectPrompt(company string) string {
	var headings strings.Builder
	for i, title := range ProspectSectionTitles {
		fmt.Fprintf(&headings, "  %d. `## %s`\n", i+1, title)
	}

	return fmt.Sprintf(`You are a senior revenue strategist preparing a prospecting brief.

Write a concise yet comprehensive Markdown report for **%[1]s** that a quota-carrying seller can skim in under two minutes.

Formatting contract:
- Start with `+"`# Prospect Research: %[1]s`"+`.
- Each major section must start with `+"`##`"+` followed by an emoji and title exactly in this order:
%[2]s- Use short paragraphs for narrative sections. Use `+"`**`"+` emphasis only for short labels (e.g. "**Metric:** 25%% YoY growth").
- For Company Snapshot, give 6-8 key facts as bullet items in the format `+"`**Label:** Value`"+`.
- For Strategic Position, use bullet items in the format `+"`**Theme:** supporting insight`"+`.
- For Key Buyers & Contacts, produce a Markdown table with columns `+"`Name | Role | Focus Area | Recommended Angle`"+`. If a name is unknown, use the most likely title.
- For Products & Solutions, produce a Markdown table with columns `+"`Offering | Ideal Persona | Differentiator | Proof`"+`.
- For Pain Points & Triggers, produce a Markdown table with columns `+"`Pain Point | Trigger | Implication | Sales Angle`"+`.
- For Recommended Plays, produce a Markdown table with columns `+"`Play | Target Persona | Proof Point | CTA`"+`.
- For Risks & Objections, produce a Markdown table with columns `+"`Risk / Objection | Likely Concern | Mitigation | Asset / Evidence`"+`.
- In Sources, give numbered entries like `+"`[1] Title — Publisher (YYYY-MM-DD) <https://...>`"+`.

Research rules:
- Ground every claim in live web results. Prefer sources from the last 12 months; if older, note the year.
- Surface metrics, buying triggers, product launches, executive moves and initiatives relevant to sales cycles.
- Call out uncertainties and information gaps so the rep knows what to validate.
- Never fabricate data. Mark unknown values as "Unknown" and explain the gap.

Return only Markdown that follows the contract. Do not wrap the response in JSON.`, company, headings.String())
}
