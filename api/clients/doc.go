// Package clients provides typed HTTP clients for the advisory certificate
// API, used by command line tools and integration tests.
package clients
