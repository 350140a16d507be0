package repo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"oraflow/internal/core/gmt"
	perr "oraflow/internal/platform/errors"
)

// Ext is the file suffix of a library in a GMT directory
const Ext = ".gmt"

// Dir reads libraries from <root>/<NAME>.gmt, falling back to the lower cased name
type Dir struct {
	fsys fs.FS
}

// NewDir opens a directory source
func NewDir(root string) *Dir { return &Dir{fsys: os.DirFS(root)} }

// NewFS is NewDir over any fs.FS, used with embedded or test trees
func NewFS(fsys fs.FS) *Dir { return &Dir{fsys: fsys} }

// Sets implements domain.Source
func (d *Dir) Sets(_ context.Context, library string) ([]gmt.Set, error) {
	for _, name := range []string{library + Ext, strings.ToLower(library) + Ext} {
		f, err := d.fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInput, "open %s", name), library)
		}
		sets, err := gmt.Parse(f)
		_ = f.Close()
		if err != nil {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInput, "parse %s", name), library)
		}
		return sets, nil
	}
	return nil, perr.WithField(perr.NotFoundf("library %s has no %s file", library, Ext), library)
}

// Names implements domain.Source; upper cased file stems, sorted
func (d *Dir) Names(_ context.Context) ([]string, error) {
	ents, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInput, "list gene set dir")
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		name := strings.ToUpper(strings.TrimSuffix(e.Name(), Ext))
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}

// setReader is the read half of domain.Source
type setReader interface {
	Sets(ctx context.Context, library string) ([]gmt.Set, error)
}

// Export writes each named library of src to <root>/<NAME>.gmt so NewDir(root) reads it back
func Export(ctx context.Context, src setReader, root string, names []string) (int, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeStorage, "create %s", root)
	}
	var n int
	for _, name := range names {
		sets, err := src.Sets(ctx, name)
		if err != nil {
			return n, err
		}
		path := filepath.Join(root, name+Ext)
		f, err := os.Create(path)
		if err != nil {
			return n, perr.WithField(perr.Wrapf(err, perr.ErrorCodeStorage, "create %s", path), name)
		}
		err = gmt.Write(f, sets)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return n, perr.WithField(perr.Wrapf(err, perr.ErrorCodeStorage, "write %s", path), name)
		}
		n++
	}
	return n, nil
}
