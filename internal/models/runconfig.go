package models

import (
	"path"
	"strings"
)

// Attribute values PhpStorm expects on a PHPUnit run configuration.
const (
	RunConfigurationType        = "PHPUnitRunConfigurationType"
	RunConfigurationFactoryName = "PHPUnit"
	RunConfigurationScope       = "XML"
	RunConfigurationMethodV     = "2"

	// RootRunConfigurationName names the configuration for a phpunit.xml in the project root.
	RootRunConfigurationName = "PHPUnit"

	// ProjectDirMacro is PhpStorm's placeholder for the project root in workspace.xml.
	ProjectDirMacro = "$PROJECT_DIR$"

	// ModuleDirMacro is PhpStorm's placeholder for the module root in .iml files.
	ModuleDirMacro = "$MODULE_DIR$"
)

// RunConfiguration is a PHPUnit run configuration as stored in workspace.xml.
type RunConfiguration struct {
	// Name is the display name shown in PhpStorm
	Name string `json:"name" yaml:"name"`

	// ConfigurationFile is the $PROJECT_DIR$-prefixed phpunit.xml path; it is the identity key
	ConfigurationFile string `json:"configurationFile" yaml:"configurationFile"`
}

// NewRunConfiguration derives the configuration for a discovered
// project-relative phpunit.xml path.
func NewRunConfiguration(rel string) RunConfiguration {
	return RunConfiguration{
		Name:              RunConfigurationName(rel),
		ConfigurationFile: ProjectDirMacro + "/" + rel,
	}
}

// RunConfigurationName returns "PHPUnit" for a file in the project root,
// otherwise the name of the folder holding the file.
func RunConfigurationName(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return RootRunConfigurationName
	}
	return path.Base(dir)
}

// DisplayPath strips the $PROJECT_DIR$ macro, leaving the "/tests/phpunit.xml"
// form used in notices.
func DisplayPath(configurationFile string) string {
	return strings.TrimPrefix(configurationFile, ProjectDirMacro)
}

// ExcludeFolderURL returns the excludeFolder url attribute for a normalized path.
func ExcludeFolderURL(p string) string {
	return "file://" + ModuleDirMacro + "/" + p
}
