package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chanscout/chanscout/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Commit replaces dir with the documents of p. Everything is written to a sibling staging
// directory first, which is renamed into place only once complete. On failure the previous
// contents of dir are left as they were.
func Commit(fs afero.Fs, dir string, p *Playlist) error {
	dir = filepath.Clean(dir)
	parent, base := filepath.Dir(dir), filepath.Base(dir)

	if err := fs.MkdirAll(parent, dirMode); err != nil {
		return fmt.Errorf("create %s: %w", parent, err)
	}

	if err := sweep(fs, dir); err != nil {
		return err
	}

	stage, err := afero.TempDir(fs, parent, "."+base+".stage-")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	if err := write(fs, stage, p); err != nil {
		_ = fs.RemoveAll(stage)
		return err
	}

	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		_ = fs.RemoveAll(stage)
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if !exists {
		if err := fs.Rename(stage, dir); err != nil {
			_ = fs.RemoveAll(stage)
			return fmt.Errorf("move output into place: %w", err)
		}
		return nil
	}

	old := filepath.Join(parent, "."+base+".old-"+strconv.FormatInt(time.Now().UnixNano(), 36))
	if err := fs.Rename(dir, old); err != nil {
		_ = fs.RemoveAll(stage)
		return fmt.Errorf("move previous output aside: %w", err)
	}

	if err := fs.Rename(stage, dir); err != nil {
		if rerr := fs.Rename(old, dir); rerr != nil {
			log.Errorf("restore previous output from %s: %s", old, rerr)
		}
		_ = fs.RemoveAll(stage)
		return fmt.Errorf("move output into place: %w", err)
	}

	if err := fs.RemoveAll(old); err != nil {
		log.Warnf("remove previous output %s: %s", old, err)
	}

	return nil
}

// sweep removes staging and set-aside directories left next to dir by an interrupted commit.
// If dir itself is missing, the newest set-aside copy is moved back first.
func sweep(fs afero.Fs, dir string) error {
	parent, base := filepath.Dir(dir), filepath.Base(dir)
	stagePrefix, oldPrefix := "."+base+".stage-", "."+base+".old-"

	entries, err := afero.ReadDir(fs, parent)
	if err != nil {
		return fmt.Errorf("read %s: %w", parent, err)
	}

	var stale, olds []string
	for _, e := range entries {
		switch name := e.Name(); {
		case !e.IsDir():
		case strings.HasPrefix(name, stagePrefix):
			stale = append(stale, name)
		case strings.HasPrefix(name, oldPrefix):
			olds = append(olds, name)
		}
	}

	if len(olds) > 0 {
		exists, err := afero.DirExists(fs, dir)
		if err != nil {
			return fmt.Errorf("stat %s: %w", dir, err)
		}

		if !exists {
			// Set-aside names sort by creation time.
			newest := lo.MaxBy(olds, func(a, b string) bool { return len(a) > len(b) || (len(a) == len(b) && a > b) })
			if err := fs.Rename(filepath.Join(parent, newest), dir); err != nil {
				return fmt.Errorf("restore previous output from %s: %w", newest, err)
			}
			log.Warnf("restored %s from an interrupted commit", dir)
			olds = lo.Without(olds, newest)
		}
	}

	for _, name := range append(stale, olds...) {
		if err := fs.RemoveAll(filepath.Join(parent, name)); err != nil {
			log.Warnf("remove leftover %s: %s", name, err)
		}
	}

	return nil
}

func write(fs afero.Fs, dir string, p *Playlist) error {
	for name, doc := range p.Files() {
		path := filepath.Join(dir, name)
		if err := afero.WriteFile(fs, path, []byte(doc), fileMode); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	// TempDir creates 0700 directories.
	if err := fs.Chmod(dir, dirMode); err != nil {
		return fmt.Errorf("chmod %s: %w", dir, err)
	}

	return nil
}
