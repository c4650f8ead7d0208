package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jakoblorz/go-ideasync/internal/composer"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/models"
)

// ErrManifestNotFound is returned by Detect when no composer.json is found.
var ErrManifestNotFound = errors.New("composer.json not found")

// Workspace represents a Composer project together with its PhpStorm .idea layout.
type Workspace struct {
	fs       filesystem.FileSystem
	rootPath string

	Project  *models.Project
	Manifest *composer.Manifest
}

// Option configures workspace behavior.
type Option func(*Workspace)

// WithRoot pins the project root instead of searching upwards from the
// working directory.
func WithRoot(root string) Option {
	return func(w *Workspace) {
		w.rootPath = root
	}
}

// New creates a new Workspace instance.
func New(fs filesystem.FileSystem, options ...Option) *Workspace {
	ws := &Workspace{fs: fs}

	for _, option := range options {
		option(ws)
	}

	return ws
}

// Detect finds the project root and reads its composer.json.
func (w *Workspace) Detect() error {
	root, err := w.FindRoot()
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(root, composer.ManifestFileName)
	manifest, err := composer.Read(w.fs, manifestPath)
	if err != nil {
		return err
	}

	name := manifest.Name
	if name == "" {
		name = filepath.Base(root)
	}

	w.Manifest = manifest
	w.Project = models.NewProject(name, root, manifestPath)
	return nil
}

// FindRoot resolves the explicit root, or walks up the directory tree
// looking for composer.json. The manifest is not read.
func (w *Workspace) FindRoot() (string, error) {
	if w.rootPath != "" {
		root, err := filepath.Abs(w.rootPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve root %s: %w", w.rootPath, err)
		}
		if !w.fs.Exists(filepath.Join(root, composer.ManifestFileName)) {
			return "", fmt.Errorf("%w in %s", ErrManifestNotFound, root)
		}
		return root, nil
	}

	cwd, err := w.fs.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	manifestPath, found := findFileUp(w.fs, cwd, composer.ManifestFileName)
	if !found {
		return "", ErrManifestNotFound
	}

	return filepath.Dir(manifestPath), nil
}

// RootPath returns the detected project root.
func (w *Workspace) RootPath() string {
	if w.Project == nil {
		return ""
	}
	return w.Project.RootPath
}

// HasIdeaDir reports whether the project has been opened in PhpStorm.
func (w *Workspace) HasIdeaDir() bool {
	info, err := w.fs.Stat(w.Project.IdeaDir())
	return err == nil && info.IsDir()
}

// ModuleFiles lists the .iml module files directly inside .idea, sorted.
func (w *Workspace) ModuleFiles() ([]string, error) {
	matches, err := w.fs.Glob(filepath.Join(w.Project.IdeaDir(), "*.iml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list module files: %w", err)
	}

	sort.Strings(matches)
	return matches, nil
}
