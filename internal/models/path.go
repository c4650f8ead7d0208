package models

import "strings"

// NormalizePath turns a folder as written in composer.json into a
// project-relative path: leading dots are stripped, then leading and trailing
// slashes. "./src/", "/src" and "src" all become "src".
func NormalizePath(raw string) string {
	p := strings.TrimLeft(raw, ".")
	return strings.Trim(p, "/")
}

// IsOutsideProject reports whether a raw path points above the project root.
func IsOutsideProject(raw string) bool {
	return strings.HasPrefix(raw, "../")
}

// IsRootLevel reports whether a normalized path names an entry directly in
// the project root.
func IsRootLevel(p string) bool {
	return !strings.Contains(p, "/")
}
