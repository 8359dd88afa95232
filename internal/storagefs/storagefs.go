// Package storagefs abstracts the filesystem a scope root is stored on
// behind billy.Filesystem, so the index/graph/embedding-cache/memory-file
// writers can be exercised against an in-memory filesystem in tests while
// the CLI and hook binaries wire a real on-disk root (spec §5: "process-
// exclusive... atomic rename").
package storagefs

import (
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/memkeep/memkeep/internal/memerr"
)

// FS is the filesystem a single scope root is stored on.
type FS = billy.Filesystem

// OnDisk returns a real-filesystem FS rooted at dir.
func OnDisk(dir string) FS {
	return osfs.New(dir)
}

// InMemory returns an in-memory FS, for tests.
func InMemory() FS {
	return memfs.New()
}

// AtomicWrite writes data to path by writing a sibling temp file and
// renaming it into place (spec §6: "temp-file-then-rename"). A failed
// write never leaves a partial file visible at path.
func AtomicWrite(fs FS, path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := fs.Create(tmp)
	if err != nil {
		return memerr.Wrap(memerr.KindFilesystem, err, "create temp file %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = fs.Remove(tmp)
		return memerr.Wrap(memerr.KindFilesystem, err, "write temp file %s", tmp)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return memerr.Wrap(memerr.KindFilesystem, err, "close temp file %s", tmp)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return memerr.Wrap(memerr.KindFilesystem, err, "rename %s to %s", tmp, path)
	}
	return nil
}

// ReadFile reads the full contents of path, returning a not-found-flavored
// error the caller can test with os.IsNotExist-style checks via errors.Is
// on the underlying cause.
func ReadFile(fs FS, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Exists reports whether path exists on fs.
func Exists(fs FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// EnsureDir creates dir (and parents) if missing.
func EnsureDir(fs FS, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return memerr.Wrap(memerr.KindFilesystem, err, "mkdir %s", dir)
	}
	return nil
}

// RemoveIfExists removes path, tolerating its absence.
func RemoveIfExists(fs FS, path string) error {
	if !Exists(fs, path) {
		return nil
	}
	if err := fs.Remove(path); err != nil {
		return memerr.Wrap(memerr.KindFilesystem, err, "remove %s", path)
	}
	return nil
}

// ListFiles lists every top-level regular file on fs whose name ends in
// suffix, skipping temp files left behind by an interrupted AtomicWrite.
// Scope roots store memory files flat (spec §6: "<root>/<id>.md"), so a
// single non-recursive listing is a complete inventory of ground truth
// for repair/rebuild (spec §3 Ownership).
func ListFiles(fs FS, suffix string) ([]string, error) {
	infos, err := fs.ReadDir(".")
	if err != nil {
		return nil, memerr.Wrap(memerr.KindFilesystem, err, "list scope root")
	}
	var out []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		if strings.HasSuffix(name, ".tmp") {
			continue
		}
		if strings.HasSuffix(name, suffix) {
			out = append(out, name)
		}
	}
	return out, nil
}

// ErrNotExist builds a new KindNotFound error for id (it wraps no
// underlying cause), for callers that need to distinguish "missing" from
// other I/O failures without depending on the concrete billy error type.
func ErrNotExist(id string) error {
	return memerr.New(memerr.KindNotFound, "memory %q not found", id)
}
