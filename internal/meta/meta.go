// Package meta holds build-wide identifiers shared by the CLI packages.
package meta

// AppName is the binary name. It also names the config directory
// (~/.sitetools) and the environment variable prefix (SITETOOLS_).
const AppName = "sitetools"
