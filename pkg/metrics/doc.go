// Package metrics registers the Prometheus collectors that track cache
// hit/miss rates, store loads and commits, update-conflict counts, the
// deferred-update queue depth, and import/export timings. All collectors
// register themselves at package init against the default registry.
// cmd/configdb's stat command reads them from the default gatherer;
// Handler serves them over HTTP for a program that mounts it.
package metrics
