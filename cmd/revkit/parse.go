package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/revkit/revkit/toolkit"
)

// parseDeal parses "name=value@probability", for example "Acme=75000@80".
// The probability defaults to 100 when omitted.
func parseDeal(s string) (toolkit.Deal, error) {
	name, rest, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return toolkit.Deal{}, fmt.Errorf("invalid deal %q: want name=value@probability", s)
	}

	valueText, probText, hasProb := strings.Cut(rest, "@")
	value, err := strconv.ParseFloat(strings.TrimSpace(valueText), 64)
	if err != nil {
		return toolkit.Deal{}, fmt.Errorf("invalid deal %q: bad value: %w", s, err)
	}

	prob := 100.0
	if hasProb {
		prob, err = strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(probText), "%"), 64)
		if err != nil {
			return toolkit.Deal{}, fmt.Errorf("invalid deal %q: bad probability: %w", s, err)
		}
	}
	return toolkit.Deal{Name: name, Value: value, Probability: prob}, nil
}

// parseCompetitor parses "name=description". The description may be empty.
func parseCompetitor(s string) (toolkit.Competitor, error) {
	name, desc, _ := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return toolkit.Competitor{}, fmt.Errorf("invalid competitor %q: want name=description", s)
	}
	return toolkit.Competitor{Name: name, Description: strings.TrimSpace(desc)}, nil
}

func parseDeals(values []string) ([]toolkit.Deal, error) {
	deals := make([]toolkit.Deal, 0, len(values))
	for _, v := range values {
		d, err := parseDeal(v)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func parseCompetitors(values []string) ([]toolkit.Competitor, error) {
	competitors := make([]toolkit.Competitor, 0, len(values))
	for _, v := range values {
		c, err := parseCompetitor(v)
		if err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}
