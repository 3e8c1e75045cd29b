package organize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/reposort/internal/gitrepo"
	"github.com/temirov/reposort/internal/layout"
	"github.com/temirov/reposort/internal/originurl"
	"github.com/temirov/reposort/internal/repos/shared"
)

const (
	noRepositoriesFoundTemplateConstant    = "No git repositories found in %s\n"
	repositoriesFoundTemplateConstant      = "Found %d git repositories\n\n"
	plannedMovesHeadingConstant            = "Planned moves:\n"
	sectionSeparatorConstant               = "--------------------------------------------------------------------------------\n"
	planRepositoryTemplateConstant         = "  %s\n"
	planOriginTemplateConstant             = "    Origin: %s\n"
	planDestinationTemplateConstant        = "    -> %s%s\n"
	conflictMarkerConstant                 = " [CONFLICT - renamed]"
	noMarkerConstant                       = ""
	skippedHeadingConstant                 = "\nSkipped repositories:\n"
	skippedRepositoryTemplateConstant      = "  %s: %s\n"
	blankLineConstant                      = "\n"
	dryRunNoticeConstant                   = "\n[DRY RUN] No changes made. Run without --dry-run to execute.\n"
	confirmationPromptConstant             = "Proceed with moving repositories? [y/N]: "
	abortedMessageConstant                 = "Aborted.\n"
	executingMovesHeadingConstant          = "\nExecuting moves...\n"
	moveSuccessTemplateConstant            = "Moved %s -> %s\n"
	moveFailureTemplateConstant            = "Failed to move %s: %s\n"
	summaryTemplateConstant                = "\nDone: %d moved, %d skipped, %d failed.\n"
	skipReasonMissingOriginConstant        = "No origin URL found"
	skipReasonOriginLookupTemplateConstant = "Could not read origin URL: %s"
	skipReasonUnparseableTemplateConstant  = "Could not parse URL: %s"
	skipReasonAlreadyOrganizedConstant     = "Already organized"
	missingTargetDirectoryMessageConstant  = "target directory not configured"
	parentDirectoryPermissionConstant      = fs.FileMode(0o755)
)

// Service coordinates repository discovery, relocation planning, and execution.
type Service struct {
	discoverer   RepositoryDiscoverer
	gitManager   GitRepositoryManager
	fileSystem   FileSystem
	prompter     ConfirmationPrompter
	outputWriter io.Writer
	errorWriter  io.Writer
}

// NewService constructs a Service using the provided collaborators.
func NewService(discoverer RepositoryDiscoverer, gitManager GitRepositoryManager, fileSystem FileSystem, prompter ConfirmationPrompter, outputWriter io.Writer, errorWriter io.Writer) *Service {
	return &Service{
		discoverer:   discoverer,
		gitManager:   gitManager,
		fileSystem:   fileSystem,
		prompter:     prompter,
		outputWriter: outputWriter,
		errorWriter:  errorWriter,
	}
}

// Run executes the sort workflow according to the provided options.
//
// Repositories that cannot be planned are reported as skipped; failures while
// executing the plan are reported per repository and surface as a
// BatchFailureError once the whole batch has been attempted.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	sourceDirectory := strings.TrimSpace(options.SourceDirectory)
	if len(sourceDirectory) == 0 {
		sourceDirectory = defaultSourceDirectoryConstant
	}
	if len(strings.TrimSpace(options.TargetDirectory)) == 0 {
		return errors.New(missingTargetDirectoryMessageConstant)
	}

	absoluteSourceDirectory, sourceError := service.fileSystem.Abs(sourceDirectory)
	if sourceError != nil {
		return sourceError
	}
	absoluteTargetDirectory, targetError := service.fileSystem.Abs(options.TargetDirectory)
	if targetError != nil {
		return targetError
	}

	repositories, discoveryError := service.discoverer.DiscoverRepositories([]string{absoluteSourceDirectory})
	if discoveryError != nil {
		return discoveryError
	}

	if len(repositories) == 0 {
		service.printfOutput(noRepositoriesFoundTemplateConstant, absoluteSourceDirectory)
		return nil
	}

	service.printfOutput(repositoriesFoundTemplateConstant, len(repositories))

	relocationPlan := service.buildPlan(executionContext, repositories, absoluteTargetDirectory)
	service.printPlan(relocationPlan)

	if options.DryRun {
		service.printfOutput(dryRunNoticeConstant)
		return nil
	}

	if len(relocationPlan.Moves) == 0 {
		service.printSummary(ExecutionSummary{SkippedCount: len(relocationPlan.Skipped)})
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

	summary := service.executePlan(relocationPlan)
	service.printSummary(summary)

	if summary.FailedCount > 0 {
		return BatchFailureError{FailedCount: summary.FailedCount}
	}
	return nil
}

// buildPlan resolves every discovered repository against the target layout.
// Destinations are reserved as they are resolved so repositories sharing an
// origin within the batch never collide on the same disambiguated path.
func (service *Service) buildPlan(executionContext context.Context, repositories []string, targetDirectory string) RelocationPlan {
	relocationPlan := RelocationPlan{}
	reservingProbe := layout.NewReservingProbe(layout.NewFileSystemProbe(service.fileSystem))
	targetResolver := layout.NewTargetResolver(reservingProbe)

	for _, repositoryPath := range repositories {
		originURL, originError := service.gitManager.GetRemoteURL(executionContext, repositoryPath, shared.OriginRemoteNameConstant)
		if originError != nil {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         originLookupSkipReason(originError),
			})
			continue
		}
		if len(originURL) == 0 {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         skipReasonMissingOriginConstant,
			})
			continue
		}

		parsedOrigin, parseError := originurl.Parse(originURL)
		if parseError != nil {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         fmt.Sprintf(skipReasonUnparseableTemplateConstant, originURL),
			})
			continue
		}

		candidatePath, candidateError := targetResolver.Candidate(targetDirectory, parsedOrigin)
		if candidateError != nil {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         candidateError.Error(),
			})
			continue
		}

		absoluteRepositoryPath, absoluteError := service.fileSystem.Abs(repositoryPath)
		if absoluteError != nil {
			absoluteRepositoryPath = repositoryPath
		}
		if absoluteRepositoryPath == candidatePath {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         skipReasonAlreadyOrganizedConstant,
			})
			continue
		}

		destinationPath, resolveError := targetResolver.Resolve(targetDirectory, parsedOrigin)
		if resolveError != nil {
			relocationPlan.Skipped = append(relocationPlan.Skipped, SkippedRepository{
				RepositoryPath: repositoryPath,
				Reason:         resolveError.Error(),
			})
			continue
		}
		reservingProbe.Reserve(destinationPath)

		relocationPlan.Moves = append(relocationPlan.Moves, PlannedMove{
			RepositoryPath:  absoluteRepositoryPath,
			OriginURL:       originURL,
			DestinationPath: destinationPath,
			ConflictRenamed: destinationPath != candidatePath,
		})
	}

	return relocationPlan
}

func (service *Service) printPlan(relocationPlan RelocationPlan) {
	if len(relocationPlan.Moves) > 0 {
		service.printfOutput(plannedMovesHeadingConstant)
		service.printfOutput(sectionSeparatorConstant)
		for _, plannedMove := range relocationPlan.Moves {
			conflictMarker := noMarkerConstant
			if plannedMove.ConflictRenamed {
				conflictMarker = conflictMarkerConstant
			}
			service.printfOutput(planRepositoryTemplateConstant, filepath.Base(plannedMove.RepositoryPath))
			service.printfOutput(planOriginTemplateConstant, plannedMove.OriginURL)
			service.printfOutput(planDestinationTemplateConstant, plannedMove.DestinationPath, conflictMarker)
			service.printfOutput(blankLineConstant)
		}
	}

	if len(relocationPlan.Skipped) > 0 {
		service.printfOutput(skippedHeadingConstant)
		service.printfOutput(sectionSeparatorConstant)
		for _, skippedRepository := range relocationPlan.Skipped {
			service.printfOutput(skippedRepositoryTemplateConstant, filepath.Base(skippedRepository.RepositoryPath), skippedRepository.Reason)
		}
		service.printfOutput(blankLineConstant)
	}
}

func (service *Service) executePlan(relocationPlan RelocationPlan) ExecutionSummary {
	summary := ExecutionSummary{SkippedCount: len(relocationPlan.Skipped)}

	service.printfOutput(executingMovesHeadingConstant)
	service.printfOutput(sectionSeparatorConstant)

	for _, plannedMove := range relocationPlan.Moves {
		if moveError := service.performMove(plannedMove); moveError != nil {
			summary.FailedCount++
			service.printfError(moveFailureTemplateConstant, filepath.Base(plannedMove.RepositoryPath), moveError)
			continue
		}
		summary.MovedCount++
		service.printfOutput(moveSuccessTemplateConstant, filepath.Base(plannedMove.RepositoryPath), plannedMove.DestinationPath)
	}

	return summary
}

// performMove re-checks the destination immediately before renaming so a path
// that appeared mid-run fails the item while the source stays untouched.
func (service *Service) performMove(plannedMove PlannedMove) error {
	parentDirectory := filepath.Dir(plannedMove.DestinationPath)
	if creationError := service.fileSystem.MkdirAll(parentDirectory, parentDirectoryPermissionConstant); creationError != nil {
		return creationError
	}

	if _, statError := service.fileSystem.Stat(plannedMove.DestinationPath); statError == nil {
		return shared.DestinationRaceError{DestinationPath: plannedMove.DestinationPath}
	}

	return service.fileSystem.Rename(plannedMove.RepositoryPath, plannedMove.DestinationPath)
}

func (service *Service) printSummary(summary ExecutionSummary) {
	service.printfOutput(summaryTemplateConstant, summary.MovedCount, summary.SkippedCount, summary.FailedCount)
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

func originLookupSkipReason(originError error) string {
	var remoteNotFoundError gitrepo.RemoteNotFoundError
	if errors.As(originError, &remoteNotFoundError) {
		return skipReasonMissingOriginConstant
	}
	return fmt.Sprintf(skipReasonOriginLookupTemplateConstant, originError)
}
