// Package exclusion keeps the excludeFolder entries of a PhpStorm module file
// in line with composer.json.
package exclusion

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/composer"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/jakoblorz/go-ideasync/internal/report"
)

const vendorDir = "vendor"

// BuildDesired computes which folders should be excluded and which must not
// be, from the explicit lists, the composer symlinks and the mozart block.
func BuildDesired(extra *composer.Extra, requires []string, collector *report.Collector) *models.ExclusionSet {
	set := models.NewExclusionSet()

	for _, w := range extra.WarningsFor(composer.ScopeExclusion) {
		collector.Error(w.String())
	}

	for _, raw := range extra.ExcludeFolders.Include {
		if p, ok := normalize(raw, "phpstorm.exclude_folders.include_folders", collector); ok {
			set.Include(p)
		}
	}

	for _, raw := range extra.ExcludeFolders.Folders {
		p, ok := normalize(raw, "phpstorm.exclude_folders.folders", collector)
		if !ok {
			continue
		}
		if set.ExcludeOrConflict(p) {
			collector.Error(fmt.Sprintf(`Folder "%s" in both include and exclude list.`, p), report.WithPath(p))
		}
	}

	if extra.ExcludeFolders.ProcessSymlinks {
		addSymlinks(set, extra.Symlinks, collector)
	}

	if extra.Mozart != nil {
		addMozart(set, extra.Mozart, requires, collector)
	}

	return set
}

// addSymlinks excludes the duplicate side of each composer symlink. When the
// source is a root-level folder the symlink itself is excluded instead, so
// the real folder stays indexed.
func addSymlinks(set *models.ExclusionSet, symlinks []models.SymlinkEntry, collector *report.Collector) {
	for _, entry := range symlinks {
		if models.IsOutsideProject(entry.FileLocation) {
			continue
		}

		file := models.NormalizePath(entry.FileLocation)
		symlink := models.NormalizePath(entry.SymlinkLocation)
		if file == "" || symlink == "" {
			collector.Error(fmt.Sprintf(`Ignoring composer.json extra.symlinks entry "%s": "%s": empty path.`,
				entry.FileLocation, entry.SymlinkLocation))
			continue
		}

		if set.IsExcluded(symlink) {
			collector.Info(fmt.Sprintf(`Skipping excluding "%s" because symlink "%s" is already excluded.`, file, symlink),
				report.WithPath(file))
			continue
		}

		if models.IsRootLevel(file) {
			set.Exclude(symlink)
		} else {
			set.Exclude(file)
		}
	}
}

// addMozart excludes packages relocated by mozart. With an explicit package
// list only the package's src folder is excluded and the package folder is
// kept indexed; without one every required package folder is excluded.
func addMozart(set *models.ExclusionSet, mozart *composer.MozartConfig, requires []string, collector *report.Collector) {
	if mozart.HasPackages {
		for _, pkg := range mozart.Packages {
			dir := vendorPath(pkg)
			if dir == "" || set.IsIncluded(dir) {
				continue
			}
			set.Exclude(dir + "/src")
			if set.Include(dir) {
				collector.Error(fmt.Sprintf(`Folder "%s" in both include and exclude list.`, dir), report.WithPath(dir))
			}
		}
		return
	}

	for _, pkg := range requires {
		dir := vendorPath(pkg)
		if dir == "" || set.IsIncluded(dir) {
			continue
		}
		set.Exclude(dir)
	}
}

func vendorPath(pkg string) string {
	p := models.NormalizePath(pkg)
	if p == "" {
		return ""
	}
	return vendorDir + "/" + p
}

func normalize(raw, key string, collector *report.Collector) (string, bool) {
	p := models.NormalizePath(raw)
	if p == "" {
		collector.Error(fmt.Sprintf(`Ignoring composer.json extra.%s entry "%s": empty path.`, key, raw))
		return "", false
	}
	return p, true
}
