package execshell

// CommandEventObserver is notified as shell commands move through their lifecycle.
type CommandEventObserver interface {
	// CommandStarted fires immediately before the command runs.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the command produced an execution result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the command could not produce a result at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver swallows every event.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
