// Package wgslpp is a source-level preprocessor for WGSL shaders. It
// expands conditional blocks, substitutes named constants, and resolves
// file inclusion before shader text reaches the GPU API's compiler.
//
// Directive syntax, one directive per line:
//
//	//:if <expr>        begin a conditional block
//	//:else             switch to the alternative branch
//	//:end              close the nearest open block
//	//:const <name>     emit "const <name> = <value>;" from a global
//	//:include <path>   splice another file's expanded output inline
//
// A Workspace bundles the two collaborators the engine needs: a source
// table of pre-loaded shader files and a registry of typed globals.
package wgslpp

import (
	"context"
	"io/fs"

	"github.com/vk/wgslpp/engine"
	"github.com/vk/wgslpp/registry"
	"github.com/vk/wgslpp/workspace"
)

// Workspace is the top-level entry point: a set of shader sources plus
// the global registry they are preprocessed against.
//
// Globals may be set between GetShader calls; each call works against a
// snapshot taken when it starts, so concurrent calls are safe and setter
// calls never affect an in-flight expansion.
type Workspace struct {
	table    *workspace.Table
	registry *registry.Registry
}

// FromMemory builds a workspace from pre-loaded sources keyed by logical
// path. The registry starts with the BIT_0..BIT_63 integer masks defined.
func FromMemory(files map[string]string) (*Workspace, error) {
	table, err := workspace.FromMemory(files)
	if err != nil {
		return nil, err
	}
	return &Workspace{table: table, registry: registry.New()}, nil
}

// Scan builds a workspace by collecting every .wgsl file under fsys.
func Scan(fsys fs.FS) (*Workspace, error) {
	table, err := workspace.Scan(fsys, workspace.DefaultExtension)
	if err != nil {
		return nil, err
	}
	return &Workspace{table: table, registry: registry.New()}, nil
}

// SetGlobalInt defines or overwrites an integer global.
func (w *Workspace) SetGlobalInt(name string, v int64) { w.registry.SetInt(name, v) }

// SetGlobalFloat defines or overwrites a float global.
func (w *Workspace) SetGlobalFloat(name string, v float64) { w.registry.SetFloat(name, v) }

// SetGlobalBool defines or overwrites a boolean global.
func (w *Workspace) SetGlobalBool(name string, v bool) { w.registry.SetBool(name, v) }

// Registry exposes the workspace's global registry, primarily for callers
// that share one registry across workspaces or inspect it in tests.
func (w *Workspace) Registry() *registry.Registry { return w.registry }

// Sources exposes the workspace's source table.
func (w *Workspace) Sources() *workspace.Table { return w.table }

// GetShader returns the fully preprocessed text of the shader at path.
// Failures are *diag.Error values identifying kind, file, and line.
func (w *Workspace) GetShader(ctx context.Context, path string) (string, error) {
	x := engine.New(w.table, w.registry.Snapshot())
	return x.Expand(ctx, path)
}
