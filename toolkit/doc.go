// Package toolkit implements the sales tools on top of a streaming model.
//
// The JSON tools (GenerateBrief, AnswerObjection, ScoreAccounts,
// GenerateBattlecard, GenerateInterviewPack) send one JSON-mode request,
// recover the JSON value from whatever the model wrapped it in and check its
// top-level shape before decoding it:
//
//	svc, err := toolkit.FromConfig(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	brief, err := svc.GenerateBrief(ctx, "Stripe")
//
// StreamProspectReport streams a Markdown report and reports progress as
// snapshots holding the sections parsed so far:
//
//	final, err := svc.StreamProspectReport(ctx, "Stripe", func(s toolkit.ProspectSnapshot) {
//	    fmt.Printf("%s: %d sections\n", s.State, len(s.Sections))
//	})
//
// Every call records its token usage and outcome in the service's
// [revkit.Stats]; pass a shared one with WithStats to total several services.
//
// Forecast is plain arithmetic and needs no model.
package toolkit
