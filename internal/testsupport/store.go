package testsupport

import (
	"testing"

	"newsreel/internal/manifest"
)

// MustOpenStore opens a manifest.Store in runDir for tests and registers
// cleanup.
func MustOpenStore(t testing.TB, runDir string) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(runDir)
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
