// Package observability holds the Prometheus collectors shared by scout components.
//
// A nil *Metrics is valid and records nothing, so components can take one
// unconditionally and tests can leave it out.
package observability
