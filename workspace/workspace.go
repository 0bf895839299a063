// Package workspace provides source tables: in-memory maps from logical
// shader path to raw source text. The expansion engine only ever sees a
// fully-populated table; all filesystem access happens here, up front.
//
// Logical paths are workspace-relative and slash-separated. Paths
// containing ".." segments are invalid, not traversals.
package workspace

import (
	"fmt"
	"io/fs"
	"strings"
)

// DefaultExtension is the file suffix collected by Scan when none is given.
const DefaultExtension = ".wgsl"

// Table maps logical paths to raw shader source.
type Table struct {
	files map[string]string
}

// FromMemory builds a table from pre-loaded sources. Every key must be a
// valid logical path.
func FromMemory(files map[string]string) (*Table, error) {
	t := &Table{files: make(map[string]string, len(files))}
	for path, src := range files {
		if err := ValidatePath(path); err != nil {
			return nil, err
		}
		t.files[path] = src
	}
	return t, nil
}

// Scan walks fsys collecting every file with the given extension into a
// table keyed by slash-separated path relative to the filesystem root.
// An empty extension means DefaultExtension.
func Scan(fsys fs.FS, extension string) (*Table, error) {
	if extension == "" {
		extension = DefaultExtension
	}

	t := &Table{files: make(map[string]string)}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), extension) {
			return nil
		}
		src, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		t.files[path] = string(src)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}
	return t, nil
}

// Lookup returns the raw source for a logical path.
func (t *Table) Lookup(path string) (string, bool) {
	src, ok := t.files[path]
	return src, ok
}

// Len returns the number of files in the table.
func (t *Table) Len() int { return len(t.files) }

// Paths returns the logical paths present in the table, in map order.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	return paths
}

// ValidatePath checks that a logical path is workspace-relative and
// slash-separated, with no ".." segments and no backslashes.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty logical path")
	}
	if strings.ContainsRune(path, '\\') {
		return fmt.Errorf("invalid logical path %q: use forward slashes", path)
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("invalid logical path %q: must be workspace-relative", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return fmt.Errorf("invalid logical path %q: %q segments are not allowed", path, "..")
		}
		if seg == "" {
			return fmt.Errorf("invalid logical path %q: empty segment", path)
		}
	}
	return nil
}
