// Package wordpress enables PhpStorm's WordPress support when a WordPress
// install is found next to the project.
package wordpress

import (
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/report"
)

// MarkerFile identifies a WordPress install directory.
const MarkerFile = "wp-load.php"

// BuiltinLocations are checked after any custom install directories.
var BuiltinLocations = []string{
	"wordpress",
	"wp",
	"vendor/wordpress/wordpress/src",
	"../wordpress",
	"../wp",
}

// Candidates returns the locations to check in order: custom install
// directories last-declared first, then the built-in locations.
func Candidates(custom []string) []string {
	out := make([]string, 0, len(custom)+len(BuiltinLocations))
	for i := len(custom) - 1; i >= 0; i-- {
		c := strings.TrimRight(custom[i], "/")
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return append(out, BuiltinLocations...)
}

// Detect returns the first candidate, relative to root, that holds
// wp-load.php. Every check is recorded as a debug notice when collector is set.
func Detect(fsys filesystem.FileSystem, root string, candidates []string, collector *report.Collector) (string, bool) {
	for _, c := range candidates {
		marker := root + "/" + c + "/" + MarkerFile
		if collector != nil {
			collector.Debug("Checking: "+marker, report.WithPath(marker))
		}
		if fsys.Exists(filepath.Join(root, filepath.FromSlash(c), MarkerFile)) {
			return c, true
		}
	}
	return "", false
}
