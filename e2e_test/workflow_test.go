package e2e_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/reconcile"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/workspace"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	modulePath    = "/site/.idea/site.iml"
	workspacePath = "/site/.idea/workspace.xml"
)

const composerJSON = `{
	"name": "acme/site",
	"require": {
		"php": ">=8.1",
		"acme/lib": "^1.0",
		"acme/prefixed": "^2.0"
	},
	"extra": {
		"phpstorm": {
			"exclude_folders": {
				"folders": ["build", "dist/"],
				"include_folders": ["vendor/acme/lib"]
			}
		},
		"symlinks": {
			"packages/shared": "vendor/acme/shared",
			"assets": "public/assets"
		},
		"mozart": {
			"packages": ["acme/prefixed"]
		},
		"wordpress-install-dir": "web/wp"
	}
}`

const runManager = `<component name="RunManager">` +
	`<configuration name="serve" type="PhpLocalRunConfigurationType" factoryName="PHP Console"><method v="2"/></configuration>` +
	`<configuration name="old" type="PHPUnitRunConfigurationType" factoryName="PHPUnit">` +
	`<TestRunner configuration_file="$PROJECT_DIR$/tests/old/phpunit.xml" scope="XML" use_alternative_configuration_file="true"/>` +
	`<method v="2"/></configuration>` +
	`</component>`

func buildSite() *filesystem.MockFileSystem {
	return workspace.NewProjectBuilder("/site").
		WithComposerJSON(composerJSON).
		WithModuleFile("site.iml", workspace.ModuleXML("vendor/acme/lib", "legacy")).
		WithWorkspaceXML(workspace.WorkspaceXML(runManager)).
		AddFolder("build", "legacy", "packages/shared", "public/assets", "vendor/acme/lib", "vendor/acme/prefixed/src").
		AddFile("web/wp/wp-load.php", "<?php\n").
		AddPHPUnitConfig("phpunit.xml").
		AddPHPUnitConfig("tests/integration/phpunit.xml").
		AddPHPUnitConfig("vendor/acme/lib/phpunit.xml").
		AddPHPUnitConfig("wp-content/plugins/acme/phpunit.xml").
		Build()
}

func sync(t *testing.T, fs filesystem.FileSystem) *reconcile.Pass {
	t.Helper()
	pass, err := reconcile.NewRunner(fs, zerolog.Nop(), reconcile.Options{}).Run(context.Background())
	require.NoError(t, err)
	return pass
}

func messages(pass *reconcile.Pass, severity report.Severity) []string {
	var out []string
	for _, n := range pass.Notices {
		if n.Severity == severity {
			out = append(out, n.Message)
		}
	}
	return out
}

func TestFullWorkflow(t *testing.T) {
	fs := buildSite()

	// First pass brings both documents in line with composer.json
	pass := sync(t, fs)
	require.Empty(t, messages(pass, report.SeverityError))
	require.ElementsMatch(t, []string{modulePath, workspacePath}, pass.Written())

	module := fs.ReadString(modulePath)
	for _, excluded := range []string{"build", "legacy", "packages/shared", "public/assets", "vendor/acme/prefixed/src"} {
		require.Contains(t, module, `<excludeFolder url="file://$MODULE_DIR$/`+excluded+`"/>`)
	}
	require.NotContains(t, module, "vendor/acme/lib")
	require.NotContains(t, module, "dist")
	require.NotContains(t, module, `$MODULE_DIR$/vendor/acme/prefixed"`)

	ws := fs.ReadString(workspacePath)
	require.Contains(t, ws, `<configuration name="serve" type="PhpLocalRunConfigurationType"`)
	require.Contains(t, ws, `<configuration name="PHPUnit" type="PHPUnitRunConfigurationType"`)
	require.Contains(t, ws, `<configuration name="integration" type="PHPUnitRunConfigurationType"`)
	require.NotContains(t, ws, "tests/old")
	require.NotContains(t, ws, "vendor/acme/lib/phpunit.xml")
	require.NotContains(t, ws, "wp-content")
	require.Contains(t, ws, `<wordpressPath>$PROJECT_DIR$/web/wp</wordpressPath>`)

	info := messages(pass, report.SeverityInfo)
	require.Contains(t, info, `Folder "dist" not found – not processed for PhpStorm excludeFolder.`)
	require.Contains(t, info, `PhpStorm config exclusion removed for "vendor/acme/lib".`)
	require.Contains(t, info, "Removed PHPUnit Run Configuration \"old\" at `$PROJECT_DIR$/tests/old/phpunit.xml` from \"/site/.idea/workspace.xml\".")
	require.Contains(t, info, `Added WordPress path "$PROJECT_DIR$/web/wp" to "/site/.idea/workspace.xml".`)

	// Nothing changed, nothing written
	writes := fs.TotalWrites()
	pass = sync(t, fs)
	require.Empty(t, pass.Written())
	require.Equal(t, writes, fs.TotalWrites())

	// A test suite disappears
	fs.RemovePath("/site/tests/integration")
	pass = sync(t, fs)
	require.Equal(t, []string{workspacePath}, pass.Written())

	ws = fs.ReadString(workspacePath)
	require.NotContains(t, ws, `name="integration"`)
	require.Contains(t, ws, `<configuration name="PHPUnit" type="PHPUnitRunConfigurationType"`)
	require.Contains(t, ws, `<configuration name="serve" type="PhpLocalRunConfigurationType"`)

	// And the project is stable again
	pass = sync(t, fs)
	require.Empty(t, pass.Written())
}

func TestFullWorkflow_DryRun(t *testing.T) {
	fs := buildSite()
	module := fs.ReadString(modulePath)
	ws := fs.ReadString(workspacePath)

	pass, err := reconcile.NewRunner(fs, zerolog.Nop(), reconcile.Options{DryRun: true}).Run(context.Background())
	require.NoError(t, err)

	require.ElementsMatch(t, []string{modulePath, workspacePath}, pass.Written())
	require.Zero(t, fs.TotalWrites())
	require.Equal(t, module, fs.ReadString(modulePath))
	require.Equal(t, ws, fs.ReadString(workspacePath))
}

func TestFullWorkflow_ExtraDiscoveryIgnore(t *testing.T) {
	fs := buildSite()

	pass, err := reconcile.NewRunner(fs, zerolog.Nop(), reconcile.Options{
		DiscoveryIgnore: []string{"/tests/integration/"},
	}).Run(context.Background(), reconcile.TaskRunConfigurations)
	require.NoError(t, err)

	require.Equal(t, []string{workspacePath}, pass.Written())
	ws := fs.ReadString(workspacePath)
	require.False(t, strings.Contains(ws, `name="integration"`))
	require.Contains(t, ws, `<configuration name="PHPUnit" type="PHPUnitRunConfigurationType"`)
}
