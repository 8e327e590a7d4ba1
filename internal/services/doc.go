// Package services provides the shared error taxonomy and context
// annotations used across pipeline stages.
//
// Errors are tagged with sentinel markers (ErrValidation, ErrExternalTool,
// ...) via Wrap so callers can classify failures without string matching.
// Pipeline-fatal gates (coverage, stream validation) additionally carry a
// Structured payload describing which gate failed and which items offended.
package services
