// Package common holds logging setup, version information, and the service
// configuration file shared by every binary in this repository.
package common

// PackageName is the service identifier used for logging and metrics.
const PackageName = "agri-backend"

// Version is set at build time via -ldflags.
var Version = "dev"
