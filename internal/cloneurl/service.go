package cloneurl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/reposort/internal/layout"
	"github.com/temirov/reposort/internal/originurl"
	"github.com/temirov/reposort/internal/repos/shared"
)

const (
	plannedClonesHeadingConstant          = "Planned clones:\n"
	sectionSeparatorConstant              = "--------------------------------------------------------------------------------\n"
	planURLTemplateConstant               = "  %s\n"
	planDestinationTemplateConstant       = "    -> %s%s\n"
	conflictMarkerConstant                = " [CONFLICT - renamed]"
	noMarkerConstant                      = ""
	planFailuresHeadingConstant           = "\nFailed to plan:\n"
	planFailureTemplateConstant           = "  %s: %s\n"
	blankLineConstant                     = "\n"
	dryRunNoticeConstant                  = "\n[DRY RUN] No changes made. Run without --dry-run to execute.\n"
	confirmationPromptConstant            = "Proceed with cloning repositories? [y/N]: "
	abortedMessageConstant                = "Aborted.\n"
	executingClonesHeadingConstant        = "\nExecuting clones...\n"
	cloneSuccessTemplateConstant          = "Cloned %s -> %s\n"
	cloneFailureTemplateConstant          = "Failed to clone %s: %s\n"
	summaryTemplateConstant               = "\nDone: %d cloned, %d failed.\n"
	unrecognizedURLReasonConstant         = "Unrecognized URL format"
	missingTargetDirectoryMessageConstant = "target directory not configured"
	parentDirectoryPermissionConstant     = fs.FileMode(0o755)
)

// Service coordinates clone planning and execution for a batch of URLs.
type Service struct {
	gitManager   GitRepositoryManager
	fileSystem   FileSystem
	prompter     ConfirmationPrompter
	outputWriter io.Writer
	errorWriter  io.Writer
}

// NewService constructs a Service using the provided collaborators.
func NewService(gitManager GitRepositoryManager, fileSystem FileSystem, prompter ConfirmationPrompter, outputWriter io.Writer, errorWriter io.Writer) *Service {
	return &Service{
		gitManager:   gitManager,
		fileSystem:   fileSystem,
		prompter:     prompter,
		outputWriter: outputWriter,
		errorWriter:  errorWriter,
	}
}

// Run executes the clone workflow according to the provided options.
//
// URLs that cannot be parsed are per-item failures rather than skips; they
// count toward the failure total and surface in the BatchFailureError even
// when every remaining clone succeeds.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	if len(strings.TrimSpace(options.TargetDirectory)) == 0 {
		return errors.New(missingTargetDirectoryMessageConstant)
	}

	absoluteTargetDirectory, targetError := service.fileSystem.Abs(options.TargetDirectory)
	if targetError != nil {
		return targetError
	}

	clonePlan := service.buildPlan(options.RepositoryURLs, absoluteTargetDirectory)
	service.printPlan(clonePlan)

	if options.DryRun {
		service.printfOutput(dryRunNoticeConstant)
		if len(clonePlan.Failures) > 0 {
			return BatchFailureError{FailedCount: len(clonePlan.Failures)}
		}
		return nil
	}

	if len(clonePlan.Clones) == 0 {
		summary := ExecutionSummary{FailedCount: len(clonePlan.Failures)}
		service.printSummary(summary)
		if summary.FailedCount > 0 {
			return BatchFailureError{FailedCount: summary.FailedCount}
		}
		return nil
	}

	confirmationPolicy := shared.ConfirmationPolicyFromBool(options.AssumeYes)
	if confirmationPolicy.ShouldPrompt() && service.prompter != nil {
		service.printfOutput(blankLineConstant)
		confirmed, promptError := service.prompter.Confirm(confirmationPromptConstant)
		if promptError != nil {
			return promptError
		}
		if !confirmed {
			service.printfOutput(abortedMessageConstant)
			return nil
		}
	}

	summary := service.executePlan(executionContext, clonePlan, options.DisableFsck)
	service.printSummary(summary)

	if summary.FailedCount > 0 {
		return BatchFailureError{FailedCount: summary.FailedCount}
	}
	return nil
}

// buildPlan resolves every URL against the target layout. Destinations are
// reserved as they are resolved so URLs sharing an origin within the batch
// never collide on the same disambiguated path.
func (service *Service) buildPlan(repositoryURLs []string, targetDirectory string) ClonePlan {
	clonePlan := ClonePlan{}
	reservingProbe := layout.NewReservingProbe(layout.NewFileSystemProbe(service.fileSystem))
	targetResolver := layout.NewTargetResolver(reservingProbe)

	for _, repositoryURL := range repositoryURLs {
		parsedOrigin, parseError := originurl.Parse(repositoryURL)
		if parseError != nil {
			clonePlan.Failures = append(clonePlan.Failures, FailedClone{
				RepositoryURL: repositoryURL,
				Reason:        unrecognizedURLReasonConstant,
			})
			continue
		}

		candidatePath, candidateError := targetResolver.Candidate(targetDirectory, parsedOrigin)
		if candidateError != nil {
			clonePlan.Failures = append(clonePlan.Failures, FailedClone{
				RepositoryURL: repositoryURL,
				Reason:        candidateError.Error(),
			})
			continue
		}

		destinationPath, resolveError := targetResolver.Resolve(targetDirectory, parsedOrigin)
		if resolveError != nil {
			clonePlan.Failures = append(clonePlan.Failures, FailedClone{
				RepositoryURL: repositoryURL,
				Reason:        resolveError.Error(),
			})
			continue
		}
		reservingProbe.Reserve(destinationPath)

		clonePlan.Clones = append(clonePlan.Clones, PlannedClone{
			RepositoryURL:   repositoryURL,
			DestinationPath: destinationPath,
			ConflictRenamed: destinationPath != candidatePath,
		})
	}

	return clonePlan
}

func (service *Service) printPlan(clonePlan ClonePlan) {
	if len(clonePlan.Clones) > 0 {
		service.printfOutput(plannedClonesHeadingConstant)
		service.printfOutput(sectionSeparatorConstant)
		for _, plannedClone := range clonePlan.Clones {
			conflictMarker := noMarkerConstant
			if plannedClone.ConflictRenamed {
				conflictMarker = conflictMarkerConstant
			}
			service.printfOutput(planURLTemplateConstant, plannedClone.RepositoryURL)
			service.printfOutput(planDestinationTemplateConstant, plannedClone.DestinationPath, conflictMarker)
			service.printfOutput(blankLineConstant)
		}
	}

	if len(clonePlan.Failures) > 0 {
		service.printfOutput(planFailuresHeadingConstant)
		service.printfOutput(sectionSeparatorConstant)
		for _, failedClone := range clonePlan.Failures {
			service.printfOutput(planFailureTemplateConstant, failedClone.RepositoryURL, failedClone.Reason)
		}
		service.printfOutput(blankLineConstant)
	}
}

func (service *Service) executePlan(executionContext context.Context, clonePlan ClonePlan, disableFsck bool) ExecutionSummary {
	summary := ExecutionSummary{FailedCount: len(clonePlan.Failures)}

	service.printfOutput(executingClonesHeadingConstant)
	service.printfOutput(sectionSeparatorConstant)

	for _, plannedClone := range clonePlan.Clones {
		if cloneError := service.performClone(executionContext, plannedClone, disableFsck); cloneError != nil {
			summary.FailedCount++
			service.printfError(cloneFailureTemplateConstant, plannedClone.RepositoryURL, cloneError)
			continue
		}
		summary.ClonedCount++
		service.printfOutput(cloneSuccessTemplateConstant, plannedClone.RepositoryURL, plannedClone.DestinationPath)
	}

	return summary
}

// performClone re-checks the destination immediately before cloning so a path
// that appeared mid-run fails the item without invoking git.
func (service *Service) performClone(executionContext context.Context, plannedClone PlannedClone, disableFsck bool) error {
	parentDirectory := filepath.Dir(plannedClone.DestinationPath)
	if creationError := service.fileSystem.MkdirAll(parentDirectory, parentDirectoryPermissionConstant); creationError != nil {
		return creationError
	}

	if _, statError := service.fileSystem.Stat(plannedClone.DestinationPath); statError == nil {
		return shared.DestinationRaceError{DestinationPath: plannedClone.DestinationPath}
	}

	return service.gitManager.CloneRepository(executionContext, plannedClone.RepositoryURL, plannedClone.DestinationPath, disableFsck)
}

func (service *Service) printSummary(summary ExecutionSummary) {
	service.printfOutput(summaryTemplateConstant, summary.ClonedCount, summary.FailedCount)
}

func (service *Service) printfOutput(format string, arguments ...any) {
	if service.outputWriter == nil {
		return
	}
	fmt.Fprintf(service.outputWriter, format, arguments...)
}

func (service *Service) printfError(format string, arguments ...any) {
	if service.errorWriter == nil {
		return
	}
	fmt.Fprintf(service.errorWriter, format, arguments...)
}
