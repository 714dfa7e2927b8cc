package model

// RunConfig holds the validated parameters of a single run.
type RunConfig struct {
	Repository      Repository
	StaleLabel      string
	DaysBeforeClose int
	CloseMessage    string
	DryRun          bool
}
