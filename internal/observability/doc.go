// Package observability provides structured logging and Prometheus metrics.
//
// Logging is zap-based; request-scoped loggers carry the correlation id
// stored in the context. Metrics live on a private registry exposed through
// Handler so tests can build isolated instances.
package observability
