// Package idgen produces the identifiers used across the runtime: opaque
// UUID-backed strings for correlation and strictly increasing numeric
// identifiers for ordering. It lives under `internal` because callers should
// not rely on the exact format – string identifiers are opaque and numeric
// ones only promise to grow.
package idgen
