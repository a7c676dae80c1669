package shell

import "fmt"

// UnterminatedQuoteError reports a quote that was opened but never closed.
type UnterminatedQuoteError struct {
	// Quote is the offending quote character, '\'' or '"'.
	Quote byte
	// Offset is the byte offset of the opening quote in the input.
	Offset int
}

func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("unterminated %c quote at offset %d", e.Quote, e.Offset)
}

// EmptyPipelineStageError reports a pipeline stage with no command text,
// e.g. two adjacent pipes or a leading/trailing pipe.
type EmptyPipelineStageError struct {
	// Stage is the 0-based index of the empty stage.
	Stage int
}

func (e *EmptyPipelineStageError) Error() string {
	return fmt.Sprintf("empty command at pipeline stage %d", e.Stage)
}

// MalformedVariableReferenceError reports a ${ reference with no closing
// brace.
type MalformedVariableReferenceError struct {
	// Offset is the byte offset of the $ in the input.
	Offset int
}

func (e *MalformedVariableReferenceError) Error() string {
	return fmt.Sprintf("unterminated ${ reference at offset %d", e.Offset)
}
