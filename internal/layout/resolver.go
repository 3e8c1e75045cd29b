package layout

import (
	"fmt"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/temirov/reposort/internal/originurl"
)

const (
	copySuffixTemplateConstant         = "%s-copy%d"
	initialCopyOrdinalConstant         = 1
	composeDestinationTemplateConstant = "unable to compose destination path: %w"
)

// ExistenceProbe reports whether a filesystem path is already occupied.
type ExistenceProbe interface {
	Exists(path string) bool
}

// TargetResolver computes collision-free destination paths beneath a base target directory.
type TargetResolver struct {
	existenceProbe ExistenceProbe
}

// NewTargetResolver constructs a resolver backed by the provided existence probe.
func NewTargetResolver(existenceProbe ExistenceProbe) TargetResolver {
	return TargetResolver{existenceProbe: existenceProbe}
}

// Candidate composes the undisambiguated destination baseTarget/host/segments
// for the origin. Composition runs through a secure join so no origin
// component can place the destination outside the base target.
func (resolver TargetResolver) Candidate(baseTarget string, parsedOrigin originurl.ParsedOrigin) (string, error) {
	relativeComponents := append([]string{parsedOrigin.Host}, parsedOrigin.PathSegments...)
	relativePath := filepath.Join(relativeComponents...)

	candidatePath, joinError := securejoin.SecureJoin(baseTarget, relativePath)
	if joinError != nil {
		return "", fmt.Errorf(composeDestinationTemplateConstant, joinError)
	}
	return candidatePath, nil
}

// Resolve composes the candidate destination and disambiguates occupied
// destinations with ascending -copyN suffixes.
//
// The candidate is returned untouched when the probe reports it free. The
// suffix search is monotonic and gapless so repeated runs over an unchanged
// filesystem settle on the same destinations.
func (resolver TargetResolver) Resolve(baseTarget string, parsedOrigin originurl.ParsedOrigin) (string, error) {
	candidatePath, candidateError := resolver.Candidate(baseTarget, parsedOrigin)
	if candidateError != nil {
		return "", candidateError
	}

	if !resolver.pathExists(candidatePath) {
		return candidatePath, nil
	}

	for copyOrdinal := initialCopyOrdinalConstant; ; copyOrdinal++ {
		disambiguatedPath := fmt.Sprintf(copySuffixTemplateConstant, candidatePath, copyOrdinal)
		if !resolver.pathExists(disambiguatedPath) {
			return disambiguatedPath, nil
		}
	}
}

func (resolver TargetResolver) pathExists(path string) bool {
	if resolver.existenceProbe == nil {
		return false
	}
	return resolver.existenceProbe.Exists(path)
}
