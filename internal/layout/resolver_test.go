package layout_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposort/internal/layout"
	"github.com/temirov/reposort/internal/originurl"
)

const (
	forgeHostConstant                = "github.com"
	ownerSegmentConstant             = "temirov"
	repositorySegmentConstant        = "tooling"
	candidateRelativePathConstant    = "github.com/temirov/tooling"
	firstCopyRelativePathConstant    = "github.com/temirov/tooling-copy1"
	secondCopyRelativePathConstant   = "github.com/temirov/tooling-copy2"
	thirdCopyRelativePathConstant    = "github.com/temirov/tooling-copy3"
	escapeSegmentConstant            = "escape"
	parentDirectoryComponentConstant = ".."
)

type recordedExistenceProbe struct {
	existingPaths map[string]struct{}
}

func (probe recordedExistenceProbe) Exists(path string) bool {
	_, found := probe.existingPaths[path]
	return found
}

type targetResolutionTestScenario struct {
	scenarioName          string
	parsedOrigin          originurl.ParsedOrigin
	existingRelativePaths []string
	probeMissing          bool
	expectedRelativePath  string
}

func TestTargetResolverResolve(testInstance *testing.T) {
	canonicalOrigin := originurl.ParsedOrigin{
		Host:         forgeHostConstant,
		PathSegments: []string{ownerSegmentConstant, repositorySegmentConstant},
	}

	testScenarios := []targetResolutionTestScenario{
		{
			scenarioName:         "placesRepositoryUnderHostAndSegments",
			parsedOrigin:         canonicalOrigin,
			expectedRelativePath: candidateRelativePathConstant,
		},
		{
			scenarioName:         "returnsCandidateWhenProbeMissing",
			parsedOrigin:         canonicalOrigin,
			probeMissing:         true,
			expectedRelativePath: candidateRelativePathConstant,
		},
		{
			scenarioName:          "appendsCopySuffixWhenCandidateTaken",
			parsedOrigin:          canonicalOrigin,
			existingRelativePaths: []string{candidateRelativePathConstant},
			expectedRelativePath:  firstCopyRelativePathConstant,
		},
		{
			scenarioName: "ascendsOrdinalsUntilFree",
			parsedOrigin: canonicalOrigin,
			existingRelativePaths: []string{
				candidateRelativePathConstant,
				firstCopyRelativePathConstant,
				secondCopyRelativePathConstant,
			},
			expectedRelativePath: thirdCopyRelativePathConstant,
		},
		{
			scenarioName: "fillsGapsInCopyOrdinals",
			parsedOrigin: canonicalOrigin,
			existingRelativePaths: []string{
				candidateRelativePathConstant,
				secondCopyRelativePathConstant,
			},
			expectedRelativePath: firstCopyRelativePathConstant,
		},
		{
			scenarioName: "clampsTraversalComponentsWithinBase",
			parsedOrigin: originurl.ParsedOrigin{
				Host:         parentDirectoryComponentConstant,
				PathSegments: []string{parentDirectoryComponentConstant, escapeSegmentConstant},
			},
			expectedRelativePath: escapeSegmentConstant,
		},
	}

	for _, testScenario := range testScenarios {
		testScenario := testScenario
		testInstance.Run(testScenario.scenarioName, func(testInstance *testing.T) {
			baseTarget := testInstance.TempDir()

			existingPaths := make(map[string]struct{}, len(testScenario.existingRelativePaths))
			for _, relativePath := range testScenario.existingRelativePaths {
				existingPaths[filepath.Join(baseTarget, filepath.FromSlash(relativePath))] = struct{}{}
			}

			var existenceProbe layout.ExistenceProbe
			if !testScenario.probeMissing {
				existenceProbe = recordedExistenceProbe{existingPaths: existingPaths}
			}

			targetResolver := layout.NewTargetResolver(existenceProbe)
			resolvedPath, resolveError := targetResolver.Resolve(baseTarget, testScenario.parsedOrigin)
			require.NoError(testInstance, resolveError)
			require.Equal(
				testInstance,
				filepath.Join(baseTarget, filepath.FromSlash(testScenario.expectedRelativePath)),
				resolvedPath,
			)
		})
	}
}

func TestTargetResolverCandidateIgnoresOccupancy(testInstance *testing.T) {
	baseTarget := testInstance.TempDir()
	parsedOrigin := originurl.ParsedOrigin{
		Host:         forgeHostConstant,
		PathSegments: []string{ownerSegmentConstant, repositorySegmentConstant},
	}

	expectedCandidate := filepath.Join(baseTarget, filepath.FromSlash(candidateRelativePathConstant))
	occupiedPaths := map[string]struct{}{expectedCandidate: {}}

	targetResolver := layout.NewTargetResolver(recordedExistenceProbe{existingPaths: occupiedPaths})
	candidatePath, candidateError := targetResolver.Candidate(baseTarget, parsedOrigin)

	require.NoError(testInstance, candidateError)
	require.Equal(testInstance, expectedCandidate, candidatePath)
}

func TestTargetResolverSequentialResolutionsDiverge(testInstance *testing.T) {
	baseTarget := testInstance.TempDir()
	parsedOrigin := originurl.ParsedOrigin{
		Host:         forgeHostConstant,
		PathSegments: []string{ownerSegmentConstant, repositorySegmentConstant},
	}

	reservingProbe := layout.NewReservingProbe(nil)
	targetResolver := layout.NewTargetResolver(reservingProbe)

	expectedRelativePaths := []string{
		candidateRelativePathConstant,
		firstCopyRelativePathConstant,
		secondCopyRelativePathConstant,
	}
	for _, expectedRelativePath := range expectedRelativePaths {
		resolvedPath, resolveError := targetResolver.Resolve(baseTarget, parsedOrigin)
		require.NoError(testInstance, resolveError)
		require.Equal(testInstance, filepath.Join(baseTarget, filepath.FromSlash(expectedRelativePath)), resolvedPath)
		reservingProbe.Reserve(resolvedPath)
	}
}
