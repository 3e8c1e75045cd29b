// Package utils bundles the cross-command plumbing shared by the CLI.
//
// It provides the Viper-backed ConfigurationLoader, the zap LoggerFactory,
// and the FlushingWriter used to keep console output ordered.
package utils
