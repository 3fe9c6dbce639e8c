// Package piimask provides the command-line interface for piimask. It wires
// subcommands (mask, analyze, decrypt, detectors, config, ci), layers
// configuration from files, environment and flags, and runs the masking
// engine over JSON, YAML or plain-text inputs.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/piimask/cmd/piimask"
//	func main() { piimask.Execute() }
package piimask
