package models

import (
	"path/filepath"
)

// IdeaDirName is the PhpStorm project configuration folder inside the project root.
const IdeaDirName = ".idea"

// Project represents the Composer project whose PhpStorm configuration is synchronized.
type Project struct {
	// Name is the Composer package name, or the root folder name when unnamed
	Name string

	// RootPath is the absolute path to the project root (the composer.json directory)
	RootPath string

	// ManifestPath is the path to composer.json
	ManifestPath string
}

// NewProject creates a new Project instance
func NewProject(name, rootPath, manifestPath string) *Project {
	return &Project{
		Name:         name,
		RootPath:     rootPath,
		ManifestPath: manifestPath,
	}
}

// IdeaDir returns the absolute path of the .idea folder.
func (p *Project) IdeaDir() string {
	return filepath.Join(p.RootPath, IdeaDirName)
}

// IdeaDirDisplay returns the .idea folder the way notices print it, with a
// trailing slash.
func (p *Project) IdeaDirDisplay() string {
	return p.RootPath + "/" + IdeaDirName + "/"
}

// WorkspaceXMLPath returns the path of .idea/workspace.xml.
func (p *Project) WorkspaceXMLPath() string {
	return filepath.Join(p.IdeaDir(), "workspace.xml")
}

// Resolve joins a project-relative path onto the project root.
func (p *Project) Resolve(rel string) string {
	return filepath.Join(p.RootPath, filepath.FromSlash(rel))
}
