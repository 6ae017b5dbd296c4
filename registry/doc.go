// Package registry keeps compiled formulas under caller-chosen string ids
// and evaluates them on demand. It wraps the core parser with the plumbing a
// long-running process needs: concurrent-safe registration and lookup,
// pooled binding maps, JSON and YAML library import/export, hot reload of a
// library file, SQLite persistence, and Prometheus metrics.
package registry
