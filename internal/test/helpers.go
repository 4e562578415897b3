package test

import (
	"path/filepath"
	"runtime"
)

func ProjectRoot() string {
	_, b, _, _ := runtime.Caller(0)
	// internal/test sits two directories below the module root
	return filepath.Join(filepath.Dir(b), "../..")
}

// Testdata returns the path of a file under the repository's testdata directory.
func Testdata(name string) string {
	return filepath.Join(ProjectRoot(), "testdata", name)
}
