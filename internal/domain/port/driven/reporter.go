package driven

// Reporter is the user-facing output sink of a run.
type Reporter interface {
	Info(msg string)
	Warning(msg string)
	// SetOutput publishes a named structured output of the run.
	SetOutput(name string, value any) error
	// Fail reports the single message that ends a failed run.
	Fail(msg string)
}
