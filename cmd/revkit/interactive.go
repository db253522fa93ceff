package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/revkit/revkit/config"
	"github.com/revkit/revkit/format"
	"github.com/revkit/revkit/render"
	"github.com/revkit/revkit/toolkit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const menuPrompt = "Enter selection (or 'q' to quit): "

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(render.ColorAccent)
	menuNumStyle   = lipgloss.NewStyle().Foreground(render.ColorAccent)
	menuDimStyle   = lipgloss.NewStyle().Foreground(render.ColorMuted)
	menuErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Pick a tool from a menu and answer its prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), cmd.OutOrStdout())
	},
}

type menuItem struct {
	name        string
	description string
	run         func(ctx context.Context, w io.Writer, rl *readline.Instance) error
}

var menuItems = []menuItem{
	{name: "Company brief", description: "pre-call research on a company", run: interactiveBrief},
	{name: "Objection handler", description: "answer a buyer objection", run: interactiveObjection},
	{name: "ICP scoring", description: "score accounts from a CSV or the samples", run: interactiveScore},
	{name: "Battlecard", description: "positioning against competitors", run: interactiveBattlecard},
	{name: "Interview pack", description: "prep pack for a company and role", run: interactiveInterview},
	{name: "Prospect report", description: "streamed research report", run: interactiveProspect},
	{name: "Commission forecast", description: "project earnings from a pipeline", run: interactiveForecast},
}

func runInteractive(ctx context.Context, w io.Writer) error {
	rl, err := readline.New(menuPrompt)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	if err := ensureAPIKey(w, rl); err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	for {
		printMenu(w)
		rl.SetPrompt(menuPrompt)
		input, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "Goodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			fmt.Fprintln(w, "Goodbye!")
			return nil
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(menuItems) {
			fmt.Fprintln(w, menuErrStyle.Render(fmt.Sprintf("Invalid selection. Please enter 1-%d.", len(menuItems))))
			continue
		}

		item := menuItems[num-1]
		if err := runItem(ctx, w, rl, item); err != nil {
			fmt.Fprintln(w, menuErrStyle.Render("Error: "+err.Error()))
		}
		fmt.Fprintln(w, menuDimStyle.Render(strings.Repeat("-", 60)))
	}
}

// runItem runs one tool. Ctrl+C during the run cancels the tool but keeps the
// menu alive.
func runItem(ctx context.Context, w io.Writer, rl *readline.Instance, item menuItem) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(w, menuDimStyle.Render("Received interrupt, cancelling..."))
			cancel()
		case <-runCtx.Done():
		}
	}()

	logger.Debug("running tool", zap.String("tool", item.name))
	err := item.run(runCtx, w, rl)
	if errors.Is(err, readline.ErrInterrupt) {
		return nil
	}
	return err
}

func printMenu(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, menuTitleStyle.Render("revkit tools:"))
	fmt.Fprintln(w, menuDimStyle.Render(strings.Repeat("-", 13)))
	for i, item := range menuItems {
		fmt.Fprintf(w, "  %s %s - %s\n",
			menuNumStyle.Render(strconv.Itoa(i+1)+"."),
			item.name,
			menuDimStyle.Render(item.description))
	}
	fmt.Fprintln(w)
}

// ensureAPIKey asks for an API key when none is configured and offers to save
// it to the global config file.
func ensureAPIKey(w io.Writer, rl *readline.Instance) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey != "" {
		return nil
	}

	fmt.Fprintln(w, menuDimStyle.Render("No OpenRouter API key configured."))
	key, err := rl.ReadPassword("OpenRouter API key: ")
	if err != nil {
		return err
	}
	apiKey = strings.TrimSpace(string(key))
	if apiKey == "" {
		return config.ErrMissingAPIKey
	}

	answer, err := ask(rl, "Save to ~/.revkit/config.yaml? [y/N]: ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return nil
	}
	return saveAPIKey(apiKey)
}

func saveAPIKey(key string) error {
	path, err := config.GlobalPath()
	if err != nil {
		return err
	}
	if err := config.SaveAPIKey(path, key); err != nil {
		return err
	}
	logger.Info("saved API key", zap.String("path", path))
	return nil
}

// ask shows prompt and returns the trimmed answer.
func ask(rl *readline.Instance, prompt string) (string, error) {
	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askMany reads answers until an empty line.
func askMany(rl *readline.Instance, prompt string) ([]string, error) {
	var out []string
	for {
		line, err := ask(rl, prompt)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return out, nil
		}
		out = append(out, line)
	}
}

func interactiveBrief(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	company, err := ask(rl, "Company: ")
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	brief, err := svc.GenerateBrief(ctx, company)
	if err != nil {
		return err
	}
	return printJSON(w, brief)
}

func interactiveObjection(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	question, err := ask(rl, "Objection: ")
	if err != nil {
		return err
	}
	paths, err := askMany(rl, "Document file (empty to finish): ")
	if err != nil {
		return err
	}
	docs, err := readDocuments(paths)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	answer, err := svc.AnswerObjection(ctx, question, docs)
	if err != nil {
		return err
	}
	return printJSON(w, answer)
}

func interactiveScore(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	path, err := ask(rl, "Accounts CSV (empty for samples): ")
	if err != nil {
		return err
	}

	accounts := toolkit.SampleAccounts()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open accounts: %w", err)
		}
		defer f.Close()
		if accounts, err = toolkit.ParseAccountsCSV(f); err != nil {
			return err
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	result, err := svc.ScoreAccounts(ctx, accounts)
	if err != nil {
		return err
	}
	return printJSON(w, result)
}

func interactiveBattlecard(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	ours, err := ask(rl, "Our product: ")
	if err != nil {
		return err
	}
	entries, err := askMany(rl, "Competitor as name=description (empty to finish): ")
	if err != nil {
		return err
	}
	competitors, err := parseCompetitors(entries)
	if err != nil {
		return err
	}
	personas, err := ask(rl, "Personas, comma separated (SDR, AE, CS): ")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	card, err := svc.GenerateBattlecard(ctx, toolkit.BattlecardRequest{
		OurSummary:  ours,
		Competitors: competitors,
		Personas:    strings.Split(personas, ","),
	})
	if err != nil {
		return err
	}
	return printJSON(w, card)
}

func interactiveInterview(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	query, err := ask(rl, "Company and role: ")
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	pack, err := svc.GenerateInterviewPack(ctx, query)
	if err != nil {
		return err
	}
	term := render.NewTerminal()
	_, err = fmt.Fprintln(w, term.Sections(format.Sections(pack.Markdown())))
	return err
}

func interactiveProspect(ctx context.Context, w io.Writer, rl *readline.Instance) error {
	company, err := ask(rl, "Company: ")
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	printer := newSectionPrinter(w, render.NewTerminal())
	snap, err := svc.StreamProspectReport(ctx, company, printer.update)
	printer.flush(snap)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func interactiveForecast(_ context.Context, w io.Writer, rl *readline.Instance) error {
	entries, err := askMany(rl, "Deal as name=value@probability (empty for samples): ")
	if err != nil {
		return err
	}
	deals, err := parseDeals(entries)
	if err != nil {
		return err
	}
	if len(deals) == 0 {
		deals = toolkit.SampleDeals()
	}

	scenario := 0.0
	if s, err := ask(rl, "Scenario adjustment % (empty for 0): "); err != nil {
		return err
	} else if s != "" {
		if scenario, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err != nil {
			return fmt.Errorf("invalid scenario %q: %w", s, err)
		}
	}

	result, err := toolkit.Forecast(toolkit.DefaultPlan(), deals, scenario)
	if err != nil {
		return err
	}
	return printJSON(w, result)
}
