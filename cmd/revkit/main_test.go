package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/revkit/revkit"
	"github.com/revkit/revkit/config"
	"github.com/revkit/revkit/render"
	"github.com/revkit/revkit/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeal(t *testing.T) {
	type expected struct {
		deal toolkit.Deal
		err  bool
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:     "value and probability",
			input:    "Acme Corp=75000@80",
			expected: expected{deal: toolkit.Deal{Name: "Acme Corp", Value: 75000, Probability: 80}},
		},
		{
			name:     "percent sign and spaces",
			input:    " Globex = 120000 @ 40% ",
			expected: expected{deal: toolkit.Deal{Name: "Globex", Value: 120000, Probability: 40}},
		},
		{
			name:     "probability defaults to certain",
			input:    "Initech=5000",
			expected: expected{deal: toolkit.Deal{Name: "Initech", Value: 5000, Probability: 100}},
		},
		{name: "missing name", input: "=5000@10", expected: expected{err: true}},
		{name: "missing value", input: "Acme", expected: expected{err: true}},
		{name: "bad value", input: "Acme=lots@10", expected: expected{err: true}},
		{name: "bad probability", input: "Acme=100@likely", expected: expected{err: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deal, err := parseDeal(tc.input)
			if tc.expected.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.deal, deal)
		})
	}
}

func TestParseCompetitors(t *testing.T) {
	competitors, err := parseCompetitors([]string{
		"Chargebee=Subscription billing, strong in SMB",
		"Zuora",
		"Recurly = a=b notes ",
	})
	require.NoError(t, err)
	assert.Equal(t, []toolkit.Competitor{
		{Name: "Chargebee", Description: "Subscription billing, strong in SMB"},
		{Name: "Zuora"},
		{Name: "Recurly", Description: "a=b notes"},
	}, competitors)

	_, err = parseCompetitors([]string{" =notes"})
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, "", "")
	assert.Equal(t, revkit.DefaultReportModel, cfg.ReportModel)
	assert.Equal(t, revkit.DefaultJSONModel, cfg.JSONModel)
	assert.Empty(t, cfg.APIKey)

	applyFlags(cfg, "sk-or-test", "openai/gpt-4o")
	assert.Equal(t, "sk-or-test", cfg.APIKey)
	assert.Equal(t, "openai/gpt-4o", cfg.ReportModel)
	assert.Equal(t, "openai/gpt-4o", cfg.JSONModel)
}

func TestSectionPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newSectionPrinter(&buf, render.NewTerminal())

	snap := func(state toolkit.RunState, titles ...string) toolkit.ProspectSnapshot {
		sections := make([]revkit.Section, len(titles))
		for i, title := range titles {
			sections[i] = revkit.Section{Title: title, Body: title + " body\n"}
		}
		return toolkit.ProspectSnapshot{Sections: sections, State: state}
	}

	p.update(snap(toolkit.StateStreaming, "Snapshot"))
	assert.Empty(t, buf.String(), "open section is held back")

	p.update(snap(toolkit.StateStreaming, "Snapshot", "Plays"))
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Snapshot body")
	assert.NotContains(t, out, "Plays")

	p.update(snap(toolkit.StateStreaming, "Snapshot", "Plays"))
	assert.Equal(t, 1, strings.Count(ansi.Strip(buf.String()), "Snapshot body"))

	failed := snap(toolkit.StateError, "Snapshot", "Plays")
	failed.Err = errors.New("provider unavailable")
	p.flush(failed)
	out = ansi.Strip(buf.String())
	assert.Contains(t, out, "Plays body")
	assert.Contains(t, out, "Error: provider unavailable")
	assert.Equal(t, 1, strings.Count(out, "Snapshot body"))
}
