// Package runconfig registers every phpunit.xml of the project as a PHPUnit
// run configuration in PhpStorm's workspace.xml.
package runconfig

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
)

// ConfigFileName is the PHPUnit configuration file name that is discovered.
const ConfigFileName = "phpunit.xml"

// DefaultIgnore keeps vendored and WordPress-installed test suites out of discovery.
var DefaultIgnore = []string{"/vendor/", "/wp-content/"}

// Discover returns the project-relative, slash-separated paths of every
// phpunit.xml below root, sorted. Folders matching DefaultIgnore or one of
// the extra gitignore-style patterns are not descended into.
func Discover(fsys filesystem.FileSystem, root string, extraIgnore []string) ([]string, error) {
	patterns := append(append([]string{}, DefaultIgnore...), extraIgnore...)
	ignore := gitignore.New(strings.NewReader(strings.Join(patterns, "\n")), root, nil)

	var found []string
	err := fsys.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.IsDir() && entry.Name() == ConfigFileName {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s files: %w", ConfigFileName, err)
	}

	sort.Strings(found)
	return found, nil
}
