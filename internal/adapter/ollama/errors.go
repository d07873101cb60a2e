package ollama

import "fmt"

// FailureKind distinguishes the terminal translation failures. Every failure
// maps to the same client-visible response; the kind exists for logs and
// metrics.
type FailureKind string

const (
	// FailureGenerationUnavailable covers transport errors, timeouts, and
	// non-200 responses from the generation endpoint.
	FailureGenerationUnavailable FailureKind = "generation_unavailable"
	// FailureNoTextualOutput means the response carried no non-empty text
	// in any of the recognized fields.
	FailureNoTextualOutput FailureKind = "no_textual_output"
	// FailureMalformedPayload means the sanitized text did not start with
	// a valid JSON value.
	FailureMalformedPayload FailureKind = "malformed_payload"
)

// TranslationError is the typed failure returned by Translate. Translations
// are never retried; each failure is terminal for that invocation.
type TranslationError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

func unavailable(message string, cause error) *TranslationError {
	return &TranslationError{Kind: FailureGenerationUnavailable, Message: message, Cause: cause}
}

func noTextualOutput(message string) *TranslationError {
	return &TranslationError{Kind: FailureNoTextualOutput, Message: message}
}

func malformedPayload(message string, cause error) *TranslationError {
	return &TranslationError{Kind: FailureMalformedPayload, Message: message, Cause: cause}
}
