package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/models"
)

// ProjectBuilder helps create test projects on the in-memory filesystem
type ProjectBuilder struct {
	fs           *filesystem.MockFileSystem
	root         string
	composerJSON string
}

// NewProjectBuilder creates a new ProjectBuilder rooted at root
func NewProjectBuilder(root string) *ProjectBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &ProjectBuilder{
		fs:           fs,
		root:         root,
		composerJSON: "{}",
	}
}

// WithComposerJSON sets the composer.json content
func (pb *ProjectBuilder) WithComposerJSON(content string) *ProjectBuilder {
	pb.composerJSON = content
	return pb
}

// WithIdeaDir creates an empty .idea folder
func (pb *ProjectBuilder) WithIdeaDir() *ProjectBuilder {
	pb.fs.AddDir(filepath.Join(pb.root, models.IdeaDirName))
	return pb
}

// WithModuleFile adds .idea/<name> with the given content
func (pb *ProjectBuilder) WithModuleFile(name, content string) *ProjectBuilder {
	pb.fs.AddFile(filepath.Join(pb.root, models.IdeaDirName, name), []byte(content))
	return pb
}

// WithWorkspaceXML adds .idea/workspace.xml with the given content
func (pb *ProjectBuilder) WithWorkspaceXML(content string) *ProjectBuilder {
	pb.fs.AddFile(filepath.Join(pb.root, models.IdeaDirName, "workspace.xml"), []byte(content))
	return pb
}

// AddFolder creates project-relative folders
func (pb *ProjectBuilder) AddFolder(rels ...string) *ProjectBuilder {
	for _, rel := range rels {
		pb.fs.AddDir(filepath.Join(pb.root, filepath.FromSlash(rel)))
	}
	return pb
}

// AddFile creates a project-relative file
func (pb *ProjectBuilder) AddFile(rel, content string) *ProjectBuilder {
	pb.fs.AddFile(filepath.Join(pb.root, filepath.FromSlash(rel)), []byte(content))
	return pb
}

// AddPHPUnitConfig creates a phpunit.xml at the project-relative path
func (pb *ProjectBuilder) AddPHPUnitConfig(rel string) *ProjectBuilder {
	return pb.AddFile(rel, "<phpunit/>\n")
}

// Build writes composer.json and returns the filesystem
func (pb *ProjectBuilder) Build() *filesystem.MockFileSystem {
	pb.fs.AddFile(filepath.Join(pb.root, "composer.json"), []byte(pb.composerJSON))
	return pb.fs
}

// FileSystem returns the mock filesystem
func (pb *ProjectBuilder) FileSystem() *filesystem.MockFileSystem {
	return pb.fs
}

// ModuleXML renders a minimal PhpStorm module file whose content node holds
// the given excluded folders.
func ModuleXML(excludes ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<module type=\"WEB_MODULE\" version=\"4\">\n")
	b.WriteString("  <component name=\"NewModuleRootManager\">\n")
	b.WriteString("    <content url=\"file://$MODULE_DIR$\">\n")
	for _, p := range excludes {
		fmt.Fprintf(&b, "      <excludeFolder url=\"%s\" />\n", models.ExcludeFolderURL(p))
	}
	b.WriteString("    </content>\n")
	b.WriteString("    <orderEntry type=\"inheritedJdk\" />\n")
	b.WriteString("  </component>\n")
	b.WriteString("</module>\n")
	return b.String()
}

// WorkspaceXML renders a minimal workspace.xml with the given component bodies
// appended after a ProjectId component.
func WorkspaceXML(components ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<project version=\"4\">\n")
	b.WriteString("  <component name=\"ProjectId\" id=\"2a\" />\n")
	for _, c := range components {
		b.WriteString("  ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("</project>\n")
	return b.String()
}
