package composer

import (
	"testing"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/project/composer.json", []byte(`{
		"name": "acme/plugin",
		"require": {"php": ">=7.4", "ext-json": "*", "acme/lib": "^1.0", "other/thing": "^2"},
		"extra": {
			"phpstorm": {
				"exclude_folders": {
					"folders": ["vendor/acme/lib", "build"],
					"include_folders": ["vendor/acme/keep"],
					"composer-symlinks": false
				}
			}
		}
	}`))

	m, err := Read(fs, "/project/composer.json")
	require.NoError(t, err)

	assert.Equal(t, "/project/composer.json", m.Path)
	assert.Equal(t, "acme/plugin", m.Name)
	assert.Equal(t, []string{"php", "ext-json", "acme/lib", "other/thing"}, m.Requires)
	assert.Equal(t, []string{"vendor/acme/lib", "build"}, m.Extra.ExcludeFolders.Folders)
	assert.Equal(t, []string{"vendor/acme/keep"}, m.Extra.ExcludeFolders.Include)
	assert.False(t, m.Extra.ExcludeFolders.ProcessSymlinks)
	assert.Empty(t, m.Extra.Warnings)
}

func TestReadMissing(t *testing.T) {
	fs := filesystem.NewMockFileSystem()

	_, err := Read(fs, "/project/composer.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read composer.json")
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse("/project/composer.json", []byte(`{"name": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")

	_, err = Parse("/project/composer.json", []byte(`["not", "an", "object"]`))
	require.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	m, err := Parse("/project/composer.json", []byte(`{}`))
	require.NoError(t, err)

	assert.Empty(t, m.Name)
	assert.Empty(t, m.Requires)
	require.NotNil(t, m.Extra)
	assert.True(t, m.Extra.ExcludeFolders.ProcessSymlinks)
	assert.Nil(t, m.Extra.Mozart)
	assert.Empty(t, m.Extra.Symlinks)
	assert.Empty(t, m.Extra.WordPressInstallDirs)
}

func TestParseSymlinksKeepsOrder(t *testing.T) {
	m, err := Parse("/p/composer.json", []byte(`{"extra": {"symlinks": {
		"vendor/b/pkg": "wp-content/plugins/pkg",
		"vendor/a/pkg": "../outside",
		"vendor/c/pkg": 5
	}}}`))
	require.NoError(t, err)

	assert.Equal(t, []models.SymlinkEntry{
		{FileLocation: "vendor/b/pkg", SymlinkLocation: "wp-content/plugins/pkg"},
		{FileLocation: "vendor/a/pkg", SymlinkLocation: "../outside"},
	}, m.Extra.Symlinks)

	require.Len(t, m.Extra.Warnings, 1)
	assert.Equal(t, `Ignoring composer.json extra.symlinks.vendor/c/pkg: expected a string.`, m.Extra.Warnings[0].String())
}

func TestParseMozart(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		hasPackages bool
		packages    []string
		warnings    int
	}{
		{
			name:        "explicit packages",
			json:        `{"extra": {"mozart": {"packages": ["a/b", "c/d"]}}}`,
			hasPackages: true,
			packages:    []string{"a/b", "c/d"},
		},
		{
			name: "no packages key",
			json: `{"extra": {"mozart": {"dep_namespace": "Acme\\Deps\\"}}}`,
		},
		{
			name:     "packages is not a list",
			json:     `{"extra": {"mozart": {"packages": "a/b"}}}`,
			warnings: 1,
		},
		{
			name:     "mozart is not an object",
			json:     `{"extra": {"mozart": true}}`,
			warnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("/p/composer.json", []byte(tt.json))
			require.NoError(t, err)
			require.NotNil(t, m.Extra.Mozart)
			assert.Equal(t, tt.hasPackages, m.Extra.Mozart.HasPackages)
			assert.Equal(t, tt.packages, m.Extra.Mozart.Packages)
			assert.Len(t, m.Extra.Warnings, tt.warnings)
		})
	}
}

func TestParseWordPressInstallDir(t *testing.T) {
	m, err := Parse("/p/composer.json", []byte(`{"extra": {"wordpress-install-dir": "public/wp"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"public/wp"}, m.Extra.WordPressInstallDirs)

	m, err = Parse("/p/composer.json", []byte(`{"extra": {"wordpress-install-dir": ["a", 1, "b"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Extra.WordPressInstallDirs)
	require.Len(t, m.Extra.WarningsFor(ScopeWordPress), 1)
	assert.Empty(t, m.Extra.WarningsFor(ScopeExclusion))

	m, err = Parse("/p/composer.json", []byte(`{"extra": {"wordpress-install-dir": {"a": "b"}}}`))
	require.NoError(t, err)
	assert.Empty(t, m.Extra.WordPressInstallDirs)
	assert.Equal(t,
		"Ignoring composer.json extra.wordpress-install-dir: expected a string or a list of strings.",
		m.Extra.WarningsFor(ScopeWordPress)[0].String())
}

func TestParseBadShapes(t *testing.T) {
	m, err := Parse("/p/composer.json", []byte(`{"extra": {"phpstorm": {"exclude_folders": {
		"folders": "vendor",
		"include_folders": ["ok", null],
		"composer-symlinks": "yes"
	}}}}`))
	require.NoError(t, err)

	assert.Empty(t, m.Extra.ExcludeFolders.Folders)
	assert.Equal(t, []string{"ok"}, m.Extra.ExcludeFolders.Include)
	assert.True(t, m.Extra.ExcludeFolders.ProcessSymlinks)

	var messages []string
	for _, w := range m.Extra.WarningsFor(ScopeExclusion) {
		messages = append(messages, w.String())
	}
	assert.Equal(t, []string{
		"Ignoring composer.json extra.phpstorm.exclude_folders.include_folders.1: expected a string.",
		"Ignoring composer.json extra.phpstorm.exclude_folders.folders: expected a list of strings.",
		"Ignoring composer.json extra.phpstorm.exclude_folders.composer-symlinks: expected true or false.",
	}, messages)
}

func TestParseExtraNotObject(t *testing.T) {
	m, err := Parse("/p/composer.json", []byte(`{"extra": []}`))
	require.NoError(t, err)
	require.Len(t, m.Extra.Warnings, 1)
	assert.Equal(t, "Ignoring composer.json extra: expected an object.", m.Extra.Warnings[0].String())
}
