package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/reposort/internal/repos/shared"
)

const (
	defaultRootPathConstant           = "."
	csvHeaderPathConstant             = "path"
	csvHeaderOriginConstant           = "origin"
	csvHeaderBranchConstant           = "branch"
	csvHeaderDirtyConstant            = "dirty"
	unsupportedFormatTemplateConstant = "unsupported report format: %s"
)

// Service coordinates repository discovery and report emission.
type Service struct {
	discoverer   RepositoryDiscoverer
	gitManager   GitRepositoryManager
	outputWriter io.Writer
}

// NewService constructs a Service using the provided collaborators.
func NewService(discoverer RepositoryDiscoverer, gitManager GitRepositoryManager, outputWriter io.Writer) *Service {
	return &Service{
		discoverer:   discoverer,
		gitManager:   gitManager,
		outputWriter: outputWriter,
	}
}

// Run executes the report workflow according to the provided options.
//
// Repositories whose origin, branch, or worktree state cannot be read keep
// empty values for those fields; the command itself only fails on discovery
// or encoding errors.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	roots := options.Roots
	if len(roots) == 0 {
		roots = []string{defaultRootPathConstant}
	}

	repositories, discoveryError := service.discoverer.DiscoverRepositories(roots)
	if discoveryError != nil {
		return discoveryError
	}

	reports := make([]RepositoryReport, 0, len(repositories))
	for _, repositoryPath := range repositories {
		reports = append(reports, service.inspectRepository(executionContext, repositoryPath))
	}

	switch options.Format {
	case ReportFormatCSV:
		return service.writeCSV(reports)
	case ReportFormatYAML:
		return service.writeYAML(reports)
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, options.Format)
	}
}

func (service *Service) inspectRepository(executionContext context.Context, repositoryPath string) RepositoryReport {
	report := RepositoryReport{Path: repositoryPath}

	originURL, originError := service.gitManager.GetRemoteURL(executionContext, repositoryPath, shared.OriginRemoteNameConstant)
	if originError == nil {
		report.OriginURL = strings.TrimSpace(originURL)
	}

	branchName, branchError := service.gitManager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError == nil {
		report.Branch = strings.TrimSpace(branchName)
	}

	worktreeClean, worktreeError := service.gitManager.CheckCleanWorktree(executionContext, repositoryPath)
	if worktreeError == nil {
		report.Dirty = !worktreeClean
	}

	return report
}

func (service *Service) writeCSV(reports []RepositoryReport) error {
	csvWriter := csv.NewWriter(service.outputWriter)

	header := []string{csvHeaderPathConstant, csvHeaderOriginConstant, csvHeaderBranchConstant, csvHeaderDirtyConstant}
	if writeError := csvWriter.Write(header); writeError != nil {
		return writeError
	}

	for _, report := range reports {
		if writeError := csvWriter.Write(report.CSVRecord()); writeError != nil {
			return writeError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (service *Service) writeYAML(reports []RepositoryReport) error {
	encodedReports, marshalError := yaml.Marshal(reports)
	if marshalError != nil {
		return marshalError
	}

	_, writeError := service.outputWriter.Write(encodedReports)
	return writeError
}
