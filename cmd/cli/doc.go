// Package cli assembles the reposort command tree.
//
// Application binds the sort, clone, and report commands to a shared viper
// configuration loader and zap logger factory. Execute runs the tree against
// the program arguments on behalf of the reposort binary.
package cli
