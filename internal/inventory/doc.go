// Package inventory implements the report workflow: it scans the configured
// roots for git repositories and prints each repository's path, origin URL,
// current branch, and dirty state as CSV or YAML.
package inventory
