package domain

import "fmt"

// CompletionRequest is built fresh per message and never reused.
type CompletionRequest struct {
	Model           string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int
}

// ErrorKind: таксономия ошибок конвейера.
type ErrorKind string

const (
	MissingInput            ErrorKind = "missing_input"
	CompletionServiceError  ErrorKind = "completion_service_error"
	UnhandledTransportError ErrorKind = "unhandled_transport_error"
)

// Failure carries the stringified cause of a failed step.
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// CompletionResult is either Success (Failure == nil) or Failure.
type CompletionResult struct {
	Text    string
	Failure *Failure
}

func Success(text string) CompletionResult {
	return CompletionResult{Text: text}
}

func Failed(kind ErrorKind, message string) CompletionResult {
	return CompletionResult{Failure: &Failure{Kind: kind, Message: message}}
}

func (r CompletionResult) OK() bool {
	return r.Failure == nil
}
