package revkit

import (
	"errors"
	"fmt"
	"strings"
)

// Extraction and request errors
var (
	ErrMalformedModelOutput = errors.New("malformed model output")
	ErrInvalidJSON          = errors.New("invalid JSON in model output")
	ErrEmptyResponse        = errors.New("model returned an empty response")
	ErrEmptyInput           = errors.New("input is empty")
)

// MalformedModelOutputError is returned when no extraction strategy could find
// a JSON value in a model response. It carries the original text so the caller
// can show or log what the model actually said.
//
//	if errors.Is(err, revkit.ErrMalformedModelOutput) {
//	    var mErr *revkit.MalformedModelOutputError
//	    errors.As(err, &mErr)
//	    log.Println(mErr.Output)
//	}
type MalformedModelOutputError struct {
	// Output is the complete response text that failed extraction.
	Output string

	// Attempts holds the failure of each strategy that found a candidate.
	// Strategies that found nothing to parse do not contribute an entry.
	Attempts []error
}

func (e *MalformedModelOutputError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%v: no JSON found in %d bytes of output",
			ErrMalformedModelOutput, len(e.Output))
	}
	msgs := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		msgs[i] = a.Error()
	}
	return fmt.Sprintf("%v: %s", ErrMalformedModelOutput, strings.Join(msgs, "; "))
}

func (e *MalformedModelOutputError) Unwrap() error {
	return ErrMalformedModelOutput
}
