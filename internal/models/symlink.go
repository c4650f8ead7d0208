package models

// SymlinkEntry is one composer-symlinks mapping: the real folder and the
// symlink pointing at it, both relative to the project root as written in
// composer.json.
type SymlinkEntry struct {
	FileLocation    string `json:"fileLocation" yaml:"fileLocation"`
	SymlinkLocation string `json:"symlinkLocation" yaml:"symlinkLocation"`
}
