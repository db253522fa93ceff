// Package format turns streamed report Markdown into typed document blocks.
//
// # Overview
//
// A research report arrives from the model as Markdown in many small chunks.
// Rendering it progressively takes two steps, both pure functions that are
// re-run on the whole accumulated text after every chunk:
//
//  1. [Sections] splits the buffer into titled sections at "## " headings
//  2. [Render] classifies one section body into [revkit.Block] values
//
// Neither step ever fails. Input that cannot be classified degrades to fewer
// or plainer blocks, which is what a half-received table or list looks like
// mid-stream.
//
// # Block Rules
//
// Render reads the body line by line (after trimming):
//
//   - "### Text" becomes a [revkit.Subheading]
//   - consecutive "|...|" lines become a [revkit.Table] when the second line
//     is a separator row such as "|---|:--:|" and there is at least one data row
//   - consecutive "- " lines become a [revkit.KeyValueList] when every item is
//     "**Label:** Value" or "**Label**: Value", otherwise a [revkit.BulletList]
//   - any other non-blank line is its own [revkit.Paragraph]
//
// A blank line closes a pending list or table.
//
// # Inline Emphasis
//
// Paragraphs and bullet items pass through an [Inline] that resolves
// **bold**, *italic* and `code`. [HTMLInline] is the default; use
// [BodyRenderer.WithInline] with [PlainInline] or a terminal styler for other
// targets. Key-value pairs and table cells keep their raw text.
//
// # Example Usage
//
//	for _, s := range format.Sections(buf) {
//	    fmt.Println(s.Title)
//	    for _, b := range format.Render(s.Body) {
//	        switch b := b.(type) {
//	        case revkit.KeyValueList:
//	            // ...
//	        case revkit.Table:
//	            // ...
//	        }
//	    }
//	}
package format
