package organize

import "fmt"

const batchFailureTemplateConstant = "%d repositories failed to move"

// CommandOptions captures the configurable parameters for the sort command.
type CommandOptions struct {
	SourceDirectory string
	TargetDirectory string
	DryRun          bool
	AssumeYes       bool
}

// PlannedMove pairs a discovered repository with its resolved destination.
type PlannedMove struct {
	RepositoryPath  string
	OriginURL       string
	DestinationPath string
	ConflictRenamed bool
}

// SkippedRepository records a repository excluded from the plan and the reason.
type SkippedRepository struct {
	RepositoryPath string
	Reason         string
}

// RelocationPlan groups the planned moves and skipped repositories for one run.
type RelocationPlan struct {
	Moves   []PlannedMove
	Skipped []SkippedRepository
}

// ExecutionSummary tallies the outcome of executing a relocation plan.
type ExecutionSummary struct {
	MovedCount   int
	SkippedCount int
	FailedCount  int
}

// BatchFailureError reports repositories that failed during plan execution.
type BatchFailureError struct {
	FailedCount int
}

// Error describes how many repositories failed to relocate.
func (batchError BatchFailureError) Error() string {
	return fmt.Sprintf(batchFailureTemplateConstant, batchError.FailedCount)
}
