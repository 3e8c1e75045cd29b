package inventory

import "strconv"

// ReportFormat selects the encoding for report output.
type ReportFormat string

const (
	// ReportFormatCSV renders the report as comma-separated values.
	ReportFormatCSV ReportFormat = "csv"
	// ReportFormatYAML renders the report as a YAML document.
	ReportFormatYAML ReportFormat = "yaml"
)

// CommandOptions captures the configurable parameters for the report command.
type CommandOptions struct {
	Roots  []string
	Format ReportFormat
}

// RepositoryReport captures the inspected state of one repository. Fields that
// could not be read are left empty rather than failing the report.
type RepositoryReport struct {
	Path      string `yaml:"path"`
	OriginURL string `yaml:"origin"`
	Branch    string `yaml:"branch"`
	Dirty     bool   `yaml:"dirty"`
}

// CSVRecord returns the report fields in output column order.
func (report RepositoryReport) CSVRecord() []string {
	return []string{report.Path, report.OriginURL, report.Branch, strconv.FormatBool(report.Dirty)}
}
