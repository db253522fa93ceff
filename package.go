// Package revkit turns chat-completion output into structured values for a set
// of small sales-research tools.
//
// Model output reaches revkit in two shapes: a Markdown report streamed token by
// token, and a complete response that should contain one JSON object. The core
// of the module handles both without ever failing mid-stream.
//
// # Streamed Markdown
//
// The full buffer is re-parsed on every chunk. Splitting is a pure function of
// the buffer, so sections already closed never change as text is appended:
//
//	acc := revkit.NewStreamAccumulator()
//	for chunk := range stream.Chunks() {
//	    if acc.Add(chunk) {
//	        for _, s := range format.Sections(acc.Content()) {
//	            blocks := format.Render(s.Body)
//	            // draw s.Title and blocks
//	        }
//	    }
//	}
//
// [Block] is a closed set of types: [Paragraph], [BulletList], [KeyValueList],
// [Table] and [Subheading]. Malformed tables are dropped rather than drawn broken.
//
// # JSON Responses
//
// extract.JSON tries progressively looser strategies (```json fence, any fence,
// brace-balanced scan, whole text) and fails with [ErrMalformedModelOutput] only
// when all of them do:
//
//	res, err := extract.JSON(resp.Content())
//	if errors.Is(err, revkit.ErrMalformedModelOutput) {
//	    // surface to the user or retry upstream
//	}
//
// # Models
//
// [Model] and [StreamingModel] wrap LangChainGo. The models package provides the
// adapter and an OpenRouter constructor; the toolkit package builds the tools
// on top of them.
//
// # Usage Accounting
//
// [Stats] keeps thread-safe counters keyed by [StatKey]. Token counts are kept
// both in total and per model:
//
//	stats := revkit.NewStats()
//	stats.RecordUsage("openai/gpt-4o-mini", resp.Info)
//	stats.GetCounter(revkit.KeyInputTokensFor.For("openai/gpt-4o-mini"))
//
// Research prompts carry today's date from a [TimeProvider]; tests swap in
// [MockTimeProvider].
package revkit
