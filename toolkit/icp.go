package toolkit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/schema"
)

// ErrNoAccounts is returned when there is nothing to score.
var ErrNoAccounts = errors.New("no accounts to score")

// Account is one row of an account list. Empty fields are left out of the
// prompt.
type Account struct {
	Name      string `json:"name,omitempty"`
	URL       string `json:"url,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Employees int    `json:"employees,omitempty"`
	Region    string `json:"region,omitempty"`
}

// ScoredAccount is an Account with the model's priority score.
type ScoredAccount struct {
	Name      string  `json:"name"`
	URL       string  `json:"url,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	Employees int     `json:"employees,omitempty"`
	Region    string  `json:"region,omitempty"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	FirstPlay string  `json:"firstPlay"`
}

// ScoreSummary aggregates a scoring run.
type ScoreSummary struct {
	Total        int     `json:"total"`
	HighPriority int     `json:"highPriority"`
	AverageScore float64 `json:"averageScore"`
}

// ScoringResult is the ICP Scorer result.
type ScoringResult struct {
	Accounts []ScoredAccount `json:"accounts"`
	Summary  ScoreSummary    `json:"summary"`
}

// HighPriorityScore is the score at or above which an account counts as high
// priority.
const HighPriorityScore = 80

var scoringShape = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"accounts": schema.Array("Scored accounts", schema.Object(map[string]*schema.Property{
		"name":      schema.String("Account name"),
		"score":     schema.Number("Priority score").Min(0).Max(100),
		"reasoning": schema.String("Why this score"),
		"firstPlay": schema.String("Recommended first action"),
		"industry":  schema.String("Industry"),
		"employees": schema.Number("Employee count"),
		"region":    schema.String("Region"),
	}, "name", "score")),
	"summary": schema.Nested("Summary", map[string]*schema.Property{
		"total":        schema.Integer("Accounts scored"),
		"highPriority": schema.Integer("High priority accounts"),
		"averageScore": schema.Number("Average score"),
	}),
}, "accounts"))

// SampleAccounts returns a small demo account list.
func SampleAccounts() []Account {
	return []Account{
		{Name: "TechCorp Inc", Industry: "Technology", Employees: 5000, Region: "North America"},
		{Name: "Global Manufacturing", Industry: "Manufacturing", Employees: 2500, Region: "Europe"},
		{Name: "StartupXYZ", Industry: "Technology", Employees: 150, Region: "North America"},
		{Name: "Enterprise Solutions Ltd", Industry: "Professional Services", Employees: 8000, Region: "North America"},
	}
}

// ParseAccountsCSV reads an account list with a header row. Header names are
// matched case-insensitively against name, url, industry, employees and
// region; other columns are ignored. Blank lines are skipped and an
// employees value that is not a whole number is left empty.
func ParseAccountsCSV(r io.Reader) ([]Account, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoAccounts
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var accounts []Account
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		account := Account{
			Name:     field("name"),
			URL:      field("url"),
			Industry: field("industry"),
			Region:   field("region"),
		}
		if n, err := strconv.Atoi(field("employees")); err == nil {
			account.Employees = n
		}
		if account == (Account{}) {
			continue
		}
		accounts = append(accounts, account)
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

// ScoreAccounts asks the model to score accounts for sales priority. The
// summary is recomputed from the returned scores.
func (s *Service) ScoreAccounts(ctx context.Context, accounts []Account) (*ScoringResult, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("accounts: %w", revkit.ErrEmptyInput)
	}
	payload, err := json.Marshal(accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode accounts: %w", err)
	}

	var result ScoringResult
	err = s.generateJSON(ctx, jsonCall{
		tool:   "score",
		system: jsonSystemPrompt,
		user:   scoringPrompt(string(payload), len(accounts)),
		shape:  scoringShape,
	}, &result)
	if err != nil {
		return nil, err
	}
	result.Summary = Summarize(result.Accounts)
	return &result, nil
}

// Summarize counts accounts and averages their scores.
func Summarize(accounts []ScoredAccount) ScoreSummary {
	summary := ScoreSummary{Total: len(accounts)}
	if len(accounts) == 0 {
		return summary
	}
	var sum float64
	for _, a := range accounts {
		sum += a.Score
		if a.Score >= HighPriorityScore {
			summary.HighPriority++
		}
	}
	summary.AverageScore = sum / float64(len(accounts))
	return summary
}
