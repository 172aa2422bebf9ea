package execshell

// CommandEventObserver is notified around every toolchain process the executor launches.
type CommandEventObserver interface {
	// CommandStarted fires before the process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exited, whatever its status.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be spawned or awaited.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandEventObservers fans every event out to each member in order. Nil members are skipped.
type CommandEventObservers []CommandEventObserver

// CommandStarted implements CommandEventObserver.
func (observers CommandEventObservers) CommandStarted(command ShellCommand) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandStarted(command)
		}
	}
}

// CommandCompleted implements CommandEventObserver.
func (observers CommandEventObservers) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandCompleted(command, result)
		}
	}
}

// CommandExecutionFailed implements CommandEventObserver.
func (observers CommandEventObservers) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range observers {
		if observer != nil {
			observer.CommandExecutionFailed(command, failure)
		}
	}
}
