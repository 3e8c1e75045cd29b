// Package execshell runs external commands with structured lifecycle logging.
//
// ShellExecutor validates its collaborators, logs every start and outcome, and
// maps non-zero exits and launch failures onto typed errors. OSCommandRunner is
// the os/exec backed runner; the CommandRunner interface lets tests substitute
// scripted ones.
package execshell
