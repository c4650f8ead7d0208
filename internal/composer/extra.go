package composer

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/tidwall/gjson"
)

// Scope says which task consumes an extra key, so a shape warning is
// reported by the task that would have used the value.
type Scope string

const (
	ScopeExclusion Scope = "exclusion"
	ScopeWordPress Scope = "wordpress"
)

// Warning describes a value in extra that had an unexpected shape and was ignored.
type Warning struct {
	Scope  Scope
	Key    string
	Reason string
}

// String renders the warning the way it is reported to the user.
func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("Ignoring composer.json extra: %s.", w.Reason)
	}
	return fmt.Sprintf("Ignoring composer.json extra.%s: %s.", w.Key, w.Reason)
}

// ExcludeFoldersConfig is extra.phpstorm.exclude_folders.
type ExcludeFoldersConfig struct {
	// Include lists folders whose exclusion must be removed
	Include []string

	// Folders lists folders to exclude
	Folders []string

	// ProcessSymlinks enables excluding composer-symlinks duplicates (default true)
	ProcessSymlinks bool
}

// MozartConfig is extra.mozart. Without an explicit packages list every
// required package is treated as prefixed.
type MozartConfig struct {
	Packages    []string
	HasPackages bool
}

// Extra is the validated composer.json extra block.
type Extra struct {
	ExcludeFolders       ExcludeFoldersConfig
	Symlinks             []models.SymlinkEntry
	Mozart               *MozartConfig
	WordPressInstallDirs []string
	Warnings             []Warning
}

// WarningsFor returns the warnings relevant to one task.
func (e *Extra) WarningsFor(scope Scope) []Warning {
	var out []Warning
	for _, w := range e.Warnings {
		if w.Scope == scope {
			out = append(out, w)
		}
	}
	return out
}

// ParseExtra decodes the extra object. A missing extra yields defaults.
func ParseExtra(extra gjson.Result) *Extra {
	e := &Extra{
		ExcludeFolders: ExcludeFoldersConfig{ProcessSymlinks: true},
	}

	if !extra.Exists() || extra.Type == gjson.Null {
		return e
	}
	if !extra.IsObject() {
		e.warn(ScopeExclusion, "", "expected an object")
		return e
	}

	e.ExcludeFolders.Include = e.stringList(ScopeExclusion, extra.Get("phpstorm.exclude_folders.include_folders"), "phpstorm.exclude_folders.include_folders")
	e.ExcludeFolders.Folders = e.stringList(ScopeExclusion, extra.Get("phpstorm.exclude_folders.folders"), "phpstorm.exclude_folders.folders")

	if v := extra.Get("phpstorm.exclude_folders.composer-symlinks"); v.Exists() {
		switch v.Type {
		case gjson.True, gjson.False:
			e.ExcludeFolders.ProcessSymlinks = v.Bool()
		default:
			e.warn(ScopeExclusion, "phpstorm.exclude_folders.composer-symlinks", "expected true or false")
		}
	}

	e.parseSymlinks(extra.Get("symlinks"))
	e.parseMozart(extra.Get("mozart"))
	e.parseWordPress(extra.Get("wordpress-install-dir"))

	return e
}

func (e *Extra) parseSymlinks(v gjson.Result) {
	if !v.Exists() {
		return
	}
	if !v.IsObject() {
		e.warn(ScopeExclusion, "symlinks", "expected an object of file location to symlink location")
		return
	}

	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			e.warn(ScopeExclusion, "symlinks."+key.String(), "expected a string")
			return true
		}
		e.Symlinks = append(e.Symlinks, models.SymlinkEntry{
			FileLocation:    key.String(),
			SymlinkLocation: value.String(),
		})
		return true
	})
}

func (e *Extra) parseMozart(v gjson.Result) {
	if !v.Exists() {
		return
	}

	e.Mozart = &MozartConfig{}
	if !v.IsObject() {
		e.warn(ScopeExclusion, "mozart", "expected an object")
		return
	}

	packages := v.Get("packages")
	if !packages.Exists() {
		return
	}
	if !packages.IsArray() {
		e.warn(ScopeExclusion, "mozart.packages", "expected a list of package names")
		return
	}

	e.Mozart.HasPackages = true
	e.Mozart.Packages = e.stringList(ScopeExclusion, packages, "mozart.packages")
}

func (e *Extra) parseWordPress(v gjson.Result) {
	if !v.Exists() {
		return
	}

	switch {
	case v.Type == gjson.String:
		e.WordPressInstallDirs = []string{v.String()}
	case v.IsArray():
		for i, item := range v.Array() {
			if item.Type != gjson.String {
				e.warn(ScopeWordPress, fmt.Sprintf("wordpress-install-dir.%d", i), "expected a string")
				continue
			}
			e.WordPressInstallDirs = append(e.WordPressInstallDirs, item.String())
		}
	default:
		e.warn(ScopeWordPress, "wordpress-install-dir", "expected a string or a list of strings")
	}
}

// stringList reads a list of strings, skipping non-string items.
func (e *Extra) stringList(scope Scope, v gjson.Result, key string) []string {
	if !v.Exists() {
		return nil
	}
	if !v.IsArray() {
		e.warn(scope, key, "expected a list of strings")
		return nil
	}

	var out []string
	for i, item := range v.Array() {
		if item.Type != gjson.String {
			e.warn(scope, fmt.Sprintf("%s.%d", key, i), "expected a string")
			continue
		}
		out = append(out, item.String())
	}
	return out
}

func (e *Extra) warn(scope Scope, key, reason string) {
	e.Warnings = append(e.Warnings, Warning{Scope: scope, Key: key, Reason: reason})
}
