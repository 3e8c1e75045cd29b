// Package organize implements the sort workflow: it discovers git
// repositories, derives the canonical target/host/path location from each
// configured origin URL, and relocates the checkouts after a single batch
// confirmation.
package organize
