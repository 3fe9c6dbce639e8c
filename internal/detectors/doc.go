// Package detectors implements the built-in PII rules and the Detector that
// applies a registry of rules to a string. Each detection carries a category,
// the rule that produced it and a confidence in [0,1].
package detectors
