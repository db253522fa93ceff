// Package extract pulls a JSON value out of a free-text model response.
//
// Models asked for JSON often wrap it in a Markdown fence, add a sentence
// before or after it, or both. [JSON] tries progressively looser strategies
// and returns the first value that parses, together with the [Strategy] that
// found it:
//
//	r, err := extract.JSON(resp)
//	if err != nil {
//	    // errors.Is(err, revkit.ErrMalformedModelOutput)
//	}
//	obj := r.Object()
//
// [Into] decodes the extracted value straight into a Go type:
//
//	brief, err := extract.Into[toolkit.CompanyBrief](resp)
//
// Extraction never performs I/O. It runs once on a complete response, not on
// partial stream buffers.
package extract
