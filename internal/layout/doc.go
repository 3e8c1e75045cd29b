// Package layout computes collision-free destination paths for repositories
// beneath a base target directory.
//
// TargetResolver composes base/host/segments candidates from parsed origins,
// consults an injected existence probe, and appends -copyN suffixes until a
// free slot is found. ReservingProbe lets a batch run observe its own pending
// resolutions so two repositories never settle on the same destination.
package layout
