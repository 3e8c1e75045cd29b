package layout

import (
	"github.com/temirov/reposort/internal/repos/shared"
)

// FileSystemProbe answers existence checks against a FileSystem implementation.
type FileSystemProbe struct {
	fileSystem shared.FileSystem
}

// NewFileSystemProbe constructs a probe backed by the provided filesystem.
func NewFileSystemProbe(fileSystem shared.FileSystem) FileSystemProbe {
	return FileSystemProbe{fileSystem: fileSystem}
}

// Exists reports whether the path resolves to an existing filesystem entry.
func (probe FileSystemProbe) Exists(path string) bool {
	if probe.fileSystem == nil {
		return false
	}
	_, statError := probe.fileSystem.Stat(path)
	return statError == nil
}

// ReservingProbe layers an in-memory reservation set over another probe so a
// batch run observes the cumulative effect of its earlier resolutions before
// any filesystem mutation happens.
type ReservingProbe struct {
	delegate      ExistenceProbe
	reservedPaths map[string]struct{}
}

// NewReservingProbe constructs a reservation layer around the delegate probe.
func NewReservingProbe(delegate ExistenceProbe) *ReservingProbe {
	return &ReservingProbe{
		delegate:      delegate,
		reservedPaths: make(map[string]struct{}),
	}
}

// Exists reports occupancy from the reservation set first, then the delegate.
func (probe *ReservingProbe) Exists(path string) bool {
	if _, reserved := probe.reservedPaths[path]; reserved {
		return true
	}
	if probe.delegate == nil {
		return false
	}
	return probe.delegate.Exists(path)
}

// Reserve marks a resolved destination as occupied for subsequent resolutions
// within the same run.
func (probe *ReservingProbe) Reserve(path string) {
	probe.reservedPaths[path] = struct{}{}
}
