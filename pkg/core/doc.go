// Package core provides a small, stable facade over piimask's internal engine
// for external integrations. It re-exports a narrow API surface so that
// third-party tools can depend on a stable import path without reaching
// into internal packages.
//
// Example:
//
//	s, err := core.NewSession(core.DefaultConfig())
//	if err != nil { /* handle */ }
//	masked, err := s.MaskValue(record)
//	findings, err := s.Analyze(record)
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
