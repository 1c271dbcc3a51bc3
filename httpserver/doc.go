// Package httpserver hosts the advisory certificate API.
//
// The server wires the certificate handlers behind a chi router with request
// logging, optional bearer-token identity, health and drain endpoints for
// load balancer coordination, an optional pprof mount, and a Prometheus
// metrics server on a separate listen address. Startup is non-blocking via
// RunInBackground; Shutdown drains both servers gracefully.
package httpserver
