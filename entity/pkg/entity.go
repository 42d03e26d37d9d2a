package entity

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

// Entry is one entity file in a directory. ID is the file name without its
// extension.
type Entry struct {
	ID   compare.EntityID
	Path string
}

func precondition(path, reason string) error {
	return &compare.PreconditionError{Path: path, Reason: reason}
}

func RequireDir(dir string) error {
	info, e := os.Stat(dir)
	if errors.Is(e, os.ErrNotExist) {
		return precondition(dir, "does not exist")
	}
	if e != nil {
		return precondition(dir, e.Error())
	}
	if !info.IsDir() {
		return precondition(dir, "not a directory")
	}
	return nil
}

// RequireEmpty fails if dir is missing or holds any entry.
func RequireEmpty(dir string) error {
	if e := RequireDir(dir); e != nil {
		return e
	}
	f, e := os.Open(dir)
	if e != nil {
		return precondition(dir, e.Error())
	}
	defer f.Close()

	_, e = f.Readdirnames(1)
	if e == io.EOF {
		return nil
	}
	if e != nil {
		return precondition(dir, e.Error())
	}
	return precondition(dir, "not empty")
}

// RequireWritable checks that a file can be created in dir.
func RequireWritable(dir string) error {
	if e := RequireDir(dir); e != nil {
		return e
	}
	f, e := os.CreateTemp(dir, ".pdbpair_write_check_*")
	if e != nil {
		return precondition(dir, "not writable")
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, want := range exts {
		if strings.EqualFold(ext, strings.TrimPrefix(want, ".")) {
			return true
		}
	}
	return false
}

// List returns the regular files in dir with one of the given extensions,
// sorted by name. With no extensions every file is listed.
func List(dir string, exts ...string) ([]Entry, error) {
	h := handle("List: %w")
	if e := RequireDir(dir); e != nil {
		return nil, h(e)
	}
	des, e := os.ReadDir(dir)
	if e != nil {
		return nil, h(e)
	}

	var out []Entry
	for _, de := range des {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || !matchExt(de.Name(), exts) {
			continue
		}
		out = append(out, Entry{
			ID:   compare.EntityID(strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))),
			Path: filepath.Join(dir, de.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func IDs(entries []Entry) []compare.EntityID {
	ids := make([]compare.EntityID, 0, len(entries))
	for _, en := range entries {
		ids = append(ids, en.ID)
	}
	return ids
}

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}
