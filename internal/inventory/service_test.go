package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/reposort/internal/inventory"
)

const (
	reportToolingPathConstant      = "/repos/tooling"
	reportWebsitePathConstant      = "/repos/website"
	reportToolingOriginConstant    = "git@github.com:temirov/tooling.git"
	reportWebsiteOriginConstant    = "https://example.dev/team/website.git"
	reportMainBranchConstant       = "main"
	reportCSVHeaderConstant        = "path,origin,branch,dirty\n"
	unsupportedFormatValueConstant = "json"

	fullRepositoryScenarioName     = "full_repository"
	missingOriginScenarioName      = "missing_origin"
	degradedInspectionScenarioName = "inspection_failures_degrade"
	inspectionFailureMessageText   = "inspection failed"
)

type reportDiscovererStub struct {
	repositories  []string
	receivedRoots []string
	discoveryErr  error
}

func (stub *reportDiscovererStub) DiscoverRepositories(roots []string) ([]string, error) {
	stub.receivedRoots = append([]string{}, roots...)
	if stub.discoveryErr != nil {
		return nil, stub.discoveryErr
	}
	return stub.repositories, nil
}

type repositoryState struct {
	originURL   string
	branchName  string
	dirty       bool
	originErr   error
	branchErr   error
	worktreeErr error
}

type reportGitManagerStub struct {
	statesByPath map[string]*repositoryState
}

func (stub *reportGitManagerStub) stateFor(repositoryPath string) *repositoryState {
	if state, found := stub.statesByPath[repositoryPath]; found {
		return state
	}
	return &repositoryState{}
}

func (stub *reportGitManagerStub) CheckCleanWorktree(_ context.Context, repositoryPath string) (bool, error) {
	state := stub.stateFor(repositoryPath)
	if state.worktreeErr != nil {
		return false, state.worktreeErr
	}
	return !state.dirty, nil
}

func (stub *reportGitManagerStub) GetCurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	state := stub.stateFor(repositoryPath)
	if state.branchErr != nil {
		return "", state.branchErr
	}
	return state.branchName, nil
}

func (stub *reportGitManagerStub) GetRemoteURL(_ context.Context, repositoryPath string, _ string) (string, error) {
	state := stub.stateFor(repositoryPath)
	if state.originErr != nil {
		return "", state.originErr
	}
	return state.originURL, nil
}

func (stub *reportGitManagerStub) CloneRepository(_ context.Context, _ string, _ string, _ bool) error {
	return nil
}

func TestServiceRunWritesCSVReports(testInstance *testing.T) {
	testInstance.Parallel()

	inspectionFailure := errors.New(inspectionFailureMessageText)

	testCases := []struct {
		name           string
		state          *repositoryState
		expectedOutput string
	}{
		{
			name: fullRepositoryScenarioName,
			state: &repositoryState{
				originURL:  reportToolingOriginConstant,
				branchName: reportMainBranchConstant,
				dirty:      true,
			},
			expectedOutput: reportCSVHeaderConstant + reportToolingPathConstant + "," + reportToolingOriginConstant + "," + reportMainBranchConstant + ",true\n",
		},
		{
			name: missingOriginScenarioName,
			state: &repositoryState{
				branchName: reportMainBranchConstant,
				originErr:  inspectionFailure,
			},
			expectedOutput: reportCSVHeaderConstant + reportToolingPathConstant + ",," + reportMainBranchConstant + ",false\n",
		},
		{
			name: degradedInspectionScenarioName,
			state: &repositoryState{
				originErr:   inspectionFailure,
				branchErr:   inspectionFailure,
				worktreeErr: inspectionFailure,
			},
			expectedOutput: reportCSVHeaderConstant + reportToolingPathConstant + ",,,false\n",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			subTest.Parallel()

			discoverer := &reportDiscovererStub{repositories: []string{reportToolingPathConstant}}
			gitManager := &reportGitManagerStub{statesByPath: map[string]*repositoryState{
				reportToolingPathConstant: testCase.state,
			}}

			outputBuffer := &bytes.Buffer{}
			service := inventory.NewService(discoverer, gitManager, outputBuffer)

			runError := service.Run(context.Background(), inventory.CommandOptions{
				Roots:  []string{reportToolingPathConstant},
				Format: inventory.ReportFormatCSV,
			})

			require.NoError(subTest, runError)
			require.Equal(subTest, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestServiceRunWritesYAMLReports(testInstance *testing.T) {
	testInstance.Parallel()

	discoverer := &reportDiscovererStub{repositories: []string{reportToolingPathConstant, reportWebsitePathConstant}}
	gitManager := &reportGitManagerStub{statesByPath: map[string]*repositoryState{
		reportToolingPathConstant: {originURL: reportToolingOriginConstant, branchName: reportMainBranchConstant, dirty: true},
		reportWebsitePathConstant: {originURL: reportWebsiteOriginConstant, branchName: reportMainBranchConstant},
	}}

	outputBuffer := &bytes.Buffer{}
	service := inventory.NewService(discoverer, gitManager, outputBuffer)

	runError := service.Run(context.Background(), inventory.CommandOptions{
		Roots:  []string{reportToolingPathConstant},
		Format: inventory.ReportFormatYAML,
	})

	require.NoError(testInstance, runError)

	var decodedReports []inventory.RepositoryReport
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &decodedReports))

	expectedReports := []inventory.RepositoryReport{
		{Path: reportToolingPathConstant, OriginURL: reportToolingOriginConstant, Branch: reportMainBranchConstant, Dirty: true},
		{Path: reportWebsitePathConstant, OriginURL: reportWebsiteOriginConstant, Branch: reportMainBranchConstant},
	}
	require.Equal(testInstance, expectedReports, decodedReports)
}

func TestServiceRunRejectsUnsupportedFormat(testInstance *testing.T) {
	testInstance.Parallel()

	discoverer := &reportDiscovererStub{}
	service := inventory.NewService(discoverer, &reportGitManagerStub{}, &bytes.Buffer{})

	runError := service.Run(context.Background(), inventory.CommandOptions{
		Format: inventory.ReportFormat(unsupportedFormatValueConstant),
	})

	require.Error(testInstance, runError)
	require.Contains(testInstance, runError.Error(), unsupportedFormatValueConstant)
}

func TestServiceRunDefaultsToCurrentDirectoryRoot(testInstance *testing.T) {
	testInstance.Parallel()

	discoverer := &reportDiscovererStub{}
	service := inventory.NewService(discoverer, &reportGitManagerStub{}, &bytes.Buffer{})

	runError := service.Run(context.Background(), inventory.CommandOptions{Format: inventory.ReportFormatCSV})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{"."}, discoverer.receivedRoots)
}
