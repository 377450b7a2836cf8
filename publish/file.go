package publish

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// File publishes into a local directory, for example a synced folder or a web root.
type File struct {
	Fs  afero.Fs
	Dir string
}

// Publish writes content next to its destination and renames it into place.
func (f *File) Publish(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return rejected(err, "")
	}

	target := filepath.Join(f.Dir, filepath.Clean("/"+path))
	if err := f.Fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return rejected(err, "create %s", filepath.Dir(target))
	}

	tmp := target + ".tmp"
	if err := afero.WriteFile(f.Fs, tmp, content, 0644); err != nil {
		return rejected(err, "write %s", tmp)
	}

	if err := f.Fs.Rename(tmp, target); err != nil {
		_ = f.Fs.Remove(tmp)
		return rejected(err, "rename %s", target)
	}

	return nil
}

func (f *File) String() string {
	return fmt.Sprintf("file://%s", f.Dir)
}
