// Package engine ties detection and masking together into a Session. A
// session owns the registry snapshot, the detector, the strategy engine and
// the state (key, token map) that makes masking consistent and reversible.
// This package is internal; external consumers should use the stable facade
// in pkg/core.
package engine
