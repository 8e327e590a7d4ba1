// Package manifest defines the run-scoped compilation manifest and its
// SQLite persistence.
//
// A manifest lists scene assignments in scene order together with the
// coverage ratio and drop provenance of the run that produced it. Every
// assignment handed to the assembler must be stream-valid; the package
// exposes the validation state machine the pipeline drives.
package manifest
