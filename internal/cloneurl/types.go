package cloneurl

import "fmt"

const batchFailureTemplateConstant = "%d repositories failed to clone"

// CommandOptions captures the configurable parameters for the clone command.
type CommandOptions struct {
	RepositoryURLs  []string
	TargetDirectory string
	DryRun          bool
	AssumeYes       bool
	DisableFsck     bool
}

// PlannedClone pairs a repository URL with its resolved destination.
type PlannedClone struct {
	RepositoryURL   string
	DestinationPath string
	ConflictRenamed bool
}

// FailedClone records a URL that could not be planned and the reason.
type FailedClone struct {
	RepositoryURL string
	Reason        string
}

// ClonePlan groups the planned clones and planning failures for one run.
type ClonePlan struct {
	Clones   []PlannedClone
	Failures []FailedClone
}

// ExecutionSummary tallies the outcome of executing a clone plan.
type ExecutionSummary struct {
	ClonedCount int
	FailedCount int
}

// BatchFailureError reports repositories that failed to plan or clone.
type BatchFailureError struct {
	FailedCount int
}

// Error describes how many repositories failed to clone.
func (batchError BatchFailureError) Error() string {
	return fmt.Sprintf(batchFailureTemplateConstant, batchError.FailedCount)
}
