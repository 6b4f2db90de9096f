package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrerequisiteMissing signals that a synthesis stage was invoked before
	// its required section summaries reached reduce_complete. Recoverable:
	// run the map/reduce stage and try again.
	ErrPrerequisiteMissing = errors.New("prerequisite section summaries missing")

	// ErrGenerationFailed signals that the LLM gateway returned no usable
	// text for a synthesis call. Nothing is persisted when it is raised.
	ErrGenerationFailed = errors.New("llm generation failed")
)

// PrerequisiteMissingError names the section keys that block a synthesis.
type PrerequisiteMissingError struct {
	AccessionNumber string
	MissingSections []string
}

func (e *PrerequisiteMissingError) Error() string {
	return fmt.Sprintf("filing %s: missing completed summaries for sections [%s]",
		e.AccessionNumber, strings.Join(e.MissingSections, ", "))
}

func (e *PrerequisiteMissingError) Unwrap() error { return ErrPrerequisiteMissing }

// GenerationError wraps the gateway failure behind a synthesis stage.
type GenerationError struct {
	Stage           string
	AccessionNumber string
	Err             error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation for filing %s: %v", e.Stage, e.AccessionNumber, e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGenerationFailed, e.Err} }
