// Package cloneurl implements the clone workflow: it parses repository URLs,
// derives the canonical target/host/path destination for each, and clones the
// repositories there after a single batch confirmation.
package cloneurl
