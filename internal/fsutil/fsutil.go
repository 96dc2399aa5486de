// Package fsutil holds the file writes shared by the shard writer and the
// bundler. Every write is flushed to stable storage before it returns.
package fsutil

import (
	"os"
)

// FileMode is used for every generated artifact.
const FileMode = 0o644

// WriteFileSync writes data to name, truncating any existing file, and
// fsyncs it before returning.
func WriteFileSync(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
