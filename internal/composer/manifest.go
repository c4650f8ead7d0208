// Package composer reads the parts of composer.json that drive PhpStorm
// synchronization: the package name, the require list and the extra block.
package composer

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/tidwall/gjson"
)

// ManifestFileName is the Composer manifest file name.
const ManifestFileName = "composer.json"

// Manifest is the decoded subset of composer.json.
type Manifest struct {
	// Path is the absolute path of composer.json
	Path string

	// Name is the package name ("vendor/package"), empty for unnamed root packages
	Name string

	// Requires lists the keys of "require" in declaration order
	Requires []string

	// Extra is the validated "extra" configuration
	Extra *Extra
}

// Read loads and parses composer.json at path.
func Read(fs filesystem.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFileName, err)
	}

	return Parse(path, data)
}

// Parse decodes composer.json content. Only malformed JSON is an error;
// unexpected shapes inside extra become warnings on Extra.
func Parse(path string, data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in %s", path)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("invalid %s at %s: top level must be an object", ManifestFileName, path)
	}

	m := &Manifest{
		Path: path,
		Name: root.Get("name").String(),
	}

	root.Get("require").ForEach(func(key, _ gjson.Result) bool {
		m.Requires = append(m.Requires, key.String())
		return true
	})

	m.Extra = ParseExtra(root.Get("extra"))

	return m, nil
}
