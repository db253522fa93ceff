package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/revkit/revkit"
	"github.com/revkit/revkit/format"
	"github.com/revkit/revkit/render"
	"github.com/revkit/revkit/toolkit"
	"github.com/revkit/revkit/tui"
	"github.com/spf13/cobra"
)

var (
	objectionDocs []string

	scoreSample bool

	battlecardOurs        string
	battlecardCompetitors []string
	battlecardPersonas    []string

	interviewJSON bool

	prospectTUI  bool
	prospectHTML string

	forecastDeals    []string
	forecastScenario float64
	forecastSample   bool
)

var briefCmd = &cobra.Command{
	Use:   "brief <company>",
	Short: "Generate a pre-call company brief",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		brief, err := svc.GenerateBrief(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), brief)
	},
}

var objectionCmd = &cobra.Command{
	Use:   "objection <question>",
	Short: "Answer a sales objection, optionally grounded in documents",
	Long: `Answers a sales objection with key points, a caveat and a talk track.

Pass --doc once per text file to use as the knowledge base.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := readDocuments(objectionDocs)
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		answer, err := svc.AnswerObjection(cmd.Context(), strings.Join(args, " "), docs)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), answer)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [accounts.csv]",
	Short: "Score accounts against the ideal customer profile",
	Long: `Scores accounts from a CSV file with name, url, industry, employees and
region columns. Use --sample to score the built-in demo accounts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var accounts []toolkit.Account
		switch {
		case scoreSample:
			accounts = toolkit.SampleAccounts()
		case len(args) == 1:
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open accounts: %w", err)
			}
			defer f.Close()
			accounts, err = toolkit.ParseAccountsCSV(f)
			if err != nil {
				return err
			}
		default:
			return errors.New("pass a CSV file or --sample")
		}

		svc, err := newService()
		if err != nil {
			return err
		}
		result, err := svc.ScoreAccounts(cmd.Context(), accounts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var battlecardCmd = &cobra.Command{
	Use:   "battlecard",
	Short: "Build a competitive battlecard",
	Example: `  revkit battlecard --ours "Usage-based billing for SaaS" \
    --competitor "Chargebee=Subscription billing, strong in SMB" \
    --persona SDR --persona AE`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		competitors, err := parseCompetitors(battlecardCompetitors)
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		card, err := svc.GenerateBattlecard(cmd.Context(), toolkit.BattlecardRequest{
			OurSummary:  battlecardOurs,
			Competitors: competitors,
			Personas:    battlecardPersonas,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), card)
	},
}

var interviewCmd = &cobra.Command{
	Use:   "interview <query>",
	Short: "Build an interview prep pack for a company and role",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		pack, err := svc.GenerateInterviewPack(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if interviewJSON {
			return printJSON(cmd.OutOrStdout(), pack)
		}
		term := render.NewTerminal()
		_, err = fmt.Fprintln(cmd.OutOrStdout(), term.Sections(format.Sections(pack.Markdown())))
		return err
	},
}

var prospectCmd = &cobra.Command{
	Use:   "prospect <company>",
	Short: "Stream a prospect research report",
	Long: `Streams a sectioned prospect research report. Sections are printed as
soon as they are complete; --tui shows them in an interactive accordion and
--html also writes a standalone HTML page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		company := strings.Join(args, " ")

		var snap toolkit.ProspectSnapshot
		if prospectTUI {
			snap, err = tui.Run(cmd.Context(), svc, company)
		} else {
			printer := newSectionPrinter(cmd.OutOrStdout(), render.NewTerminal())
			snap, err = svc.StreamProspectReport(cmd.Context(), company, printer.update)
			printer.flush(snap)
		}

		if prospectHTML != "" && len(snap.Sections) > 0 {
			if werr := writeHTML(prospectHTML, company, snap); werr != nil {
				return errors.Join(err, werr)
			}
		}
		return err
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast commission for a pipeline under the default plan",
	Example: `  revkit forecast --deal "Acme=75000@80" --deal "Globex=120000@40" --scenario 10
  revkit forecast --sample`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deals, err := parseDeals(forecastDeals)
		if err != nil {
			return err
		}
		if forecastSample {
			deals = append(toolkit.SampleDeals(), deals...)
		}
		result, err := toolkit.Forecast(toolkit.DefaultPlan(), deals, forecastScenario)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	objectionCmd.Flags().StringArrayVar(&objectionDocs, "doc", nil, "Knowledge-base text file (repeatable)")

	scoreCmd.Flags().BoolVar(&scoreSample, "sample", false, "Score the built-in sample accounts")

	battlecardCmd.Flags().StringVar(&battlecardOurs, "ours", "", "Summary of our product (required)")
	battlecardCmd.Flags().StringArrayVar(&battlecardCompetitors, "competitor", nil, "Competitor as name=description (repeatable)")
	battlecardCmd.Flags().StringArrayVar(&battlecardPersonas, "persona", nil, "SDR, AE or CS (repeatable, default AE)")
	_ = battlecardCmd.MarkFlagRequired("ours")
	_ = battlecardCmd.MarkFlagRequired("competitor")

	interviewCmd.Flags().BoolVar(&interviewJSON, "json", false, "Print the pack as JSON")

	prospectCmd.Flags().BoolVar(&prospectTUI, "tui", false, "Show the report in an interactive accordion")
	prospectCmd.Flags().StringVar(&prospectHTML, "html", "", "Also write the report to this HTML file")

	forecastCmd.Flags().StringArrayVar(&forecastDeals, "deal", nil, "Deal as name=value@probability (repeatable)")
	forecastCmd.Flags().Float64Var(&forecastScenario, "scenario", 0, "Scenario adjustment in percent, -50 to 50")
	forecastCmd.Flags().BoolVar(&forecastSample, "sample", false, "Include the sample pipeline")
}

func readDocuments(paths []string) ([]string, error) {
	docs := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		docs = append(docs, string(data))
	}
	return docs, nil
}

func writeHTML(path, company string, snap toolkit.ProspectSnapshot) error {
	doc, err := render.NewHTML().Document("Prospect Research: "+company, snap.Sections)
	if err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

// sectionPrinter prints streamed sections once a later heading closes them.
type sectionPrinter struct {
	w       io.Writer
	term    *render.Terminal
	printed int
}

func newSectionPrinter(w io.Writer, term *render.Terminal) *sectionPrinter {
	return &sectionPrinter{w: w, term: term}
}

func (p *sectionPrinter) update(snap toolkit.ProspectSnapshot) {
	// The last section may still be growing.
	p.print(snap.Sections, len(snap.Sections)-1)
}

// flush prints whatever is left. Failed runs get their error appended.
func (p *sectionPrinter) flush(snap toolkit.ProspectSnapshot) {
	p.print(snap.Sections, len(snap.Sections))
	switch snap.State {
	case toolkit.StateCancelled:
		fmt.Fprintln(p.w, p.term.Styles().Muted.Render("Cancelled."))
	case toolkit.StateError:
		if snap.Err != nil {
			fmt.Fprintln(p.w, p.term.Styles().Muted.Render("Error: "+snap.Err.Error()))
		}
	}
}

func (p *sectionPrinter) print(sections []revkit.Section, upTo int) {
	for ; p.printed < upTo; p.printed++ {
		fmt.Fprintln(p.w, p.term.Section(sections[p.printed]))
	}
}
