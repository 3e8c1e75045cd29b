package execshell

import (
	"fmt"
	"slices"
	"strings"
)

// lifecyclePhase identifies which moment of a command run a message describes.
type lifecyclePhase int

const (
	phaseStart lifecyclePhase = iota
	phaseSuccess
	phaseFailure
	phaseExecutionFailure
)

const (
	commandStartTemplateConstant            = "Running %s"
	commandSuccessTemplateConstant          = "Completed %s"
	commandFailureTemplateConstant          = "%s failed with exit code %d%s"
	commandExecutionFailureTemplateConstant = "%s failed: %s"
	labelWithLocationTemplateConstant       = "%s%s"
	locationSuffixTemplateConstant          = " (in %s)"
	argumentSeparatorConstant               = " "
	stderrSuffixTemplateConstant            = ": %s"
	unknownErrorLabelConstant               = "unknown error"
	currentDirectoryLabelConstant           = "current directory"
	unknownValueLabelConstant               = "unknown"
)

const (
	gitConfigSubcommandConstant   = "config"
	gitConfigGetFlagConstant      = "--get"
	gitGlobalConfigFlagConstant   = "-c"
	flagPrefixConstant            = "-"
	remoteURLKeyPrefixConstant    = "remote."
	remoteURLKeySuffixConstant    = ".url"
	gitRevParseSubcommandConstant = "rev-parse"
	gitAbbrevRefFlagConstant      = "--abbrev-ref"
	gitHeadReferenceConstant      = "HEAD"
	gitStatusSubcommandConstant   = "status"
	gitCloneSubcommandConstant    = "clone"
)

const (
	remoteLookupStartTemplateConstant              = "Checking %s remote for %s"
	remoteLookupSuccessTemplateConstant            = "%s remote for %s points to %s"
	remoteLookupFailureTemplateConstant            = "Failed to read %s remote for %s (exit code %d%s)"
	remoteLookupExecutionFailureTemplateConstant   = "Unable to read %s remote for %s: %s"
	currentBranchStartTemplateConstant             = "Identifying current branch in %s"
	currentBranchSuccessTemplateConstant           = "Current branch in %s is %s"
	currentBranchDetachedTemplateConstant          = "%s is in a detached HEAD state"
	currentBranchFailureTemplateConstant           = "Failed to identify current branch in %s (exit code %d%s)"
	currentBranchExecutionFailureTemplateConstant  = "Unable to identify current branch in %s: %s"
	worktreeStatusStartTemplateConstant            = "Reviewing working tree status in %s"
	worktreeStatusSuccessTemplateConstant          = "Collected working tree status for %s"
	worktreeStatusFailureTemplateConstant          = "Failed to review working tree status in %s (exit code %d%s)"
	worktreeStatusExecutionFailureTemplateConstant = "Unable to review working tree status in %s: %s"
	cloneStartTemplateConstant                     = "Cloning %s into %s"
	cloneSuccessTemplateConstant                   = "Cloned %s into %s"
	cloneFailureTemplateConstant                   = "Failed to clone %s into %s (exit code %d%s)"
	cloneExecutionFailureTemplateConstant          = "Unable to clone %s into %s: %s"
)

// CommandMessageFormatter builds the human-readable lines describing command
// lifecycle events. Recognized git subcommands get purpose-specific wording;
// everything else falls back to a generic command label.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.render(command, ExecutionResult{}, nil, phaseStart)
}

// BuildSuccessMessage describes a command that completed with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.render(command, result, nil, phaseSuccess)
}

// BuildFailureMessage describes a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.render(command, result, nil, phaseFailure)
}

// BuildExecutionFailureMessage describes a command that never produced a result.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.render(command, ExecutionResult{}, failure, phaseExecutionFailure)
}

func (formatter CommandMessageFormatter) render(command ShellCommand, result ExecutionResult, failure error, phase lifecyclePhase) string {
	if command.Name == CommandGit {
		if message, rendered := formatter.renderGitMessage(command, result, failure, phase); rendered {
			return message
		}
	}
	return formatter.renderGenericMessage(command, result, failure, phase)
}

func (formatter CommandMessageFormatter) renderGitMessage(command ShellCommand, result ExecutionResult, failure error, phase lifecyclePhase) (string, bool) {
	subcommand := leadingGitSubcommand(command.Details.Arguments)
	if len(subcommand) == 0 {
		return "", false
	}

	switch subcommand[0] {
	case gitConfigSubcommandConstant:
		return formatter.renderRemoteLookupMessage(command, subcommand, result, failure, phase)
	case gitRevParseSubcommandConstant:
		return formatter.renderCurrentBranchMessage(command, subcommand, result, failure, phase)
	case gitStatusSubcommandConstant:
		return formatter.renderWorktreeStatusMessage(command, result, failure, phase), true
	case gitCloneSubcommandConstant:
		return formatter.renderCloneMessage(subcommand, result, failure, phase), true
	default:
		return "", false
	}
}

func (formatter CommandMessageFormatter) renderRemoteLookupMessage(command ShellCommand, subcommand []string, result ExecutionResult, failure error, phase lifecyclePhase) (string, bool) {
	remoteName := remoteNameFromConfigArguments(subcommand)
	if len(remoteName) == 0 {
		return "", false
	}

	repositoryLabel := workingDirectoryLabel(command)
	switch phase {
	case phaseStart:
		return fmt.Sprintf(remoteLookupStartTemplateConstant, remoteName, repositoryLabel), true
	case phaseSuccess:
		return fmt.Sprintf(remoteLookupSuccessTemplateConstant, remoteName, repositoryLabel, orUnknown(strings.TrimSpace(result.StandardOutput))), true
	case phaseFailure:
		return fmt.Sprintf(remoteLookupFailureTemplateConstant, remoteName, repositoryLabel, result.ExitCode, stderrSuffix(result.StandardError)), true
	default:
		return fmt.Sprintf(remoteLookupExecutionFailureTemplateConstant, remoteName, repositoryLabel, errorText(failure)), true
	}
}

func (formatter CommandMessageFormatter) renderCurrentBranchMessage(command ShellCommand, subcommand []string, result ExecutionResult, failure error, phase lifecyclePhase) (string, bool) {
	if !slices.Contains(subcommand, gitAbbrevRefFlagConstant) {
		return "", false
	}

	repositoryLabel := workingDirectoryLabel(command)
	switch phase {
	case phaseStart:
		return fmt.Sprintf(currentBranchStartTemplateConstant, repositoryLabel), true
	case phaseSuccess:
		branchName := strings.TrimSpace(result.StandardOutput)
		if branchName == gitHeadReferenceConstant {
			return fmt.Sprintf(currentBranchDetachedTemplateConstant, repositoryLabel), true
		}
		return fmt.Sprintf(currentBranchSuccessTemplateConstant, repositoryLabel, orUnknown(branchName)), true
	case phaseFailure:
		return fmt.Sprintf(currentBranchFailureTemplateConstant, repositoryLabel, result.ExitCode, stderrSuffix(result.StandardError)), true
	default:
		return fmt.Sprintf(currentBranchExecutionFailureTemplateConstant, repositoryLabel, errorText(failure)), true
	}
}

func (formatter CommandMessageFormatter) renderWorktreeStatusMessage(command ShellCommand, result ExecutionResult, failure error, phase lifecyclePhase) string {
	repositoryLabel := workingDirectoryLabel(command)
	switch phase {
	case phaseStart:
		return fmt.Sprintf(worktreeStatusStartTemplateConstant, repositoryLabel)
	case phaseSuccess:
		return fmt.Sprintf(worktreeStatusSuccessTemplateConstant, repositoryLabel)
	case phaseFailure:
		return fmt.Sprintf(worktreeStatusFailureTemplateConstant, repositoryLabel, result.ExitCode, stderrSuffix(result.StandardError))
	default:
		return fmt.Sprintf(worktreeStatusExecutionFailureTemplateConstant, repositoryLabel, errorText(failure))
	}
}

func (formatter CommandMessageFormatter) renderCloneMessage(subcommand []string, result ExecutionResult, failure error, phase lifecyclePhase) string {
	remoteURL := orUnknown(positionalArgument(subcommand, 1))
	destinationPath := orUnknown(positionalArgument(subcommand, 2))

	switch phase {
	case phaseStart:
		return fmt.Sprintf(cloneStartTemplateConstant, remoteURL, destinationPath)
	case phaseSuccess:
		return fmt.Sprintf(cloneSuccessTemplateConstant, remoteURL, destinationPath)
	case phaseFailure:
		return fmt.Sprintf(cloneFailureTemplateConstant, remoteURL, destinationPath, result.ExitCode, stderrSuffix(result.StandardError))
	default:
		return fmt.Sprintf(cloneExecutionFailureTemplateConstant, remoteURL, destinationPath, errorText(failure))
	}
}

func (formatter CommandMessageFormatter) renderGenericMessage(command ShellCommand, result ExecutionResult, failure error, phase lifecyclePhase) string {
	commandLabel := genericCommandLabel(command)
	switch phase {
	case phaseStart:
		return fmt.Sprintf(commandStartTemplateConstant, commandLabel)
	case phaseSuccess:
		return fmt.Sprintf(commandSuccessTemplateConstant, commandLabel)
	case phaseFailure:
		return fmt.Sprintf(commandFailureTemplateConstant, commandLabel, result.ExitCode, stderrSuffix(result.StandardError))
	default:
		return fmt.Sprintf(commandExecutionFailureTemplateConstant, commandLabel, errorText(failure))
	}
}

func genericCommandLabel(command ShellCommand) string {
	labelParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		labelParts = append(labelParts, strings.Join(command.Details.Arguments, argumentSeparatorConstant))
	}
	return fmt.Sprintf(labelWithLocationTemplateConstant, strings.Join(labelParts, argumentSeparatorConstant), locationSuffix(command))
}

func locationSuffix(command ShellCommand) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(locationSuffixTemplateConstant, workingDirectory)
}

func stderrSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(stderrSuffixTemplateConstant, trimmedStandardError)
}

func workingDirectoryLabel(command ShellCommand) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return currentDirectoryLabelConstant
	}
	return workingDirectory
}

func errorText(failure error) string {
	if failure == nil {
		return unknownErrorLabelConstant
	}
	return failure.Error()
}

func remoteNameFromConfigArguments(subcommand []string) string {
	if !slices.Contains(subcommand, gitConfigGetFlagConstant) {
		return ""
	}
	for _, argument := range subcommand {
		if strings.HasPrefix(argument, remoteURLKeyPrefixConstant) && strings.HasSuffix(argument, remoteURLKeySuffixConstant) {
			return strings.TrimSuffix(strings.TrimPrefix(argument, remoteURLKeyPrefixConstant), remoteURLKeySuffixConstant)
		}
	}
	return ""
}

func positionalArgument(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return ""
	}
	return strings.TrimSpace(arguments[index])
}

func orUnknown(value string) string {
	if len(value) == 0 {
		return unknownValueLabelConstant
	}
	return value
}

// leadingGitSubcommand slices arguments from the first non-flag token, stepping
// over -c together with its key=value argument.
func leadingGitSubcommand(arguments []string) []string {
	for index := 0; index < len(arguments); index++ {
		switch {
		case arguments[index] == gitGlobalConfigFlagConstant:
			index++
		case strings.HasPrefix(arguments[index], flagPrefixConstant):
		default:
			return arguments[index:]
		}
	}
	return nil
}
