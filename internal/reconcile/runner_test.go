package reconcile

import (
	"context"
	"testing"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/workspace"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modulePath    = "/project/.idea/project.iml"
	workspacePath = "/project/.idea/workspace.xml"
)

func runPass(t *testing.T, fs filesystem.FileSystem, options Options, tasks ...Task) *Pass {
	t.Helper()
	pass, err := NewRunner(fs, zerolog.Nop(), options).Run(context.Background(), tasks...)
	require.NoError(t, err)
	return pass
}

func messagesFor(pass *Pass, task Task, severity report.Severity) []string {
	var out []string
	for _, n := range pass.Notices {
		if n.Task == string(task) && n.Severity == severity {
			out = append(out, n.Message)
		}
	}
	return out
}

func fullProject() *workspace.ProjectBuilder {
	return workspace.NewProjectBuilder("/project").
		WithComposerJSON(`{
			"name": "acme/site",
			"require": {"php": ">=8.1", "acme/lib": "^1.0"},
			"extra": {"phpstorm": {"exclude_folders": {"folders": ["build"]}}}
		}`).
		WithModuleFile("project.iml", workspace.ModuleXML()).
		WithWorkspaceXML(workspace.WorkspaceXML()).
		AddFolder("build", "wp").
		AddFile("wp/wp-load.php", "<?php\n").
		AddPHPUnitConfig("phpunit.xml")
}

// Every default task checks the .idea folder on its own, so a missing folder
// yields exactly one notice per task.
func TestRun_MissingIdeaDir_OneNoticePerTask(t *testing.T) {
	fs := workspace.NewProjectBuilder("/project").Build()

	pass := runPass(t, fs, Options{})

	expected := `PhpStorm project folder "/project/.idea/" does not exist. Maybe this project has not been opened in PhpStorm yet.`
	for _, task := range DefaultTasks {
		assert.Equal(t, []string{expected}, messagesFor(pass, task, report.SeverityInfo), string(task))
	}
	assert.Len(t, pass.Notices, len(DefaultTasks))
	assert.Zero(t, fs.TotalWrites())
	assert.NotEmpty(t, pass.ID)
	assert.Equal(t, "/project", pass.Root)
}

func TestRun_NoManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/elsewhere")
	fs.SetCurrentDir("/elsewhere")

	pass, err := NewRunner(fs, zerolog.Nop(), Options{}).Run(context.Background())

	assert.Nil(t, pass)
	assert.ErrorIs(t, err, workspace.ErrManifestNotFound)
}

func TestRun_ModuleFilePrerequisites(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*workspace.ProjectBuilder)
		expected string
	}{
		{
			name:     "no module file",
			build:    func(pb *workspace.ProjectBuilder) { pb.WithIdeaDir() },
			expected: `No PhpStorm .iml file found in "/project/.idea/".`,
		},
		{
			name: "two module files",
			build: func(pb *workspace.ProjectBuilder) {
				pb.WithModuleFile("a.iml", workspace.ModuleXML()).
					WithModuleFile("b.iml", workspace.ModuleXML())
			},
			expected: `Unexpectedly found more than one .iml file in "/project/.idea/".`,
		},
		{
			name:     "broken module file",
			build:    func(pb *workspace.ProjectBuilder) { pb.WithModuleFile("project.iml", "<module><component>") },
			expected: `Could not parse XML for PhpStorm .iml file at "/project/.idea/project.iml".`,
		},
		{
			name:     "no content node",
			build:    func(pb *workspace.ProjectBuilder) { pb.WithModuleFile("project.iml", `<module version="4"/>`) },
			expected: `No content node found in PhpStorm .iml file at "/project/.idea/project.iml".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := workspace.NewProjectBuilder("/project")
			tt.build(pb)
			fs := pb.Build()

			pass := runPass(t, fs, Options{}, TaskExcludeFolders)

			assert.Equal(t, []string{tt.expected}, messagesFor(pass, TaskExcludeFolders, report.SeverityInfo))
			assert.Zero(t, fs.TotalWrites())
		})
	}
}

func TestRun_WorkspaceXMLPrerequisites(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		fs := workspace.NewProjectBuilder("/project").WithIdeaDir().Build()

		pass := runPass(t, fs, Options{}, TaskRunConfigurations, TaskWordPress)

		expected := []string{`No PhpStorm workspace.xml file found in "/project/.idea/".`}
		assert.Equal(t, expected, messagesFor(pass, TaskRunConfigurations, report.SeverityInfo))
		assert.Equal(t, expected, messagesFor(pass, TaskWordPress, report.SeverityInfo))
		assert.Zero(t, fs.TotalWrites())
	})

	t.Run("broken", func(t *testing.T) {
		fs := workspace.NewProjectBuilder("/project").WithWorkspaceXML("<project").Build()

		pass := runPass(t, fs, Options{}, TaskRunConfigurations)

		assert.Equal(t, []string{
			`Could not parse XML for PhpStorm workspace.xml file at "/project/.idea/workspace.xml".`,
		}, messagesFor(pass, TaskRunConfigurations, report.SeverityInfo))
		assert.Zero(t, fs.TotalWrites())
	})
}

func TestRun_FullSync(t *testing.T) {
	fs := fullProject().Build()

	pass := runPass(t, fs, Options{})

	assert.ElementsMatch(t, []string{modulePath, workspacePath}, pass.Written())
	assert.Equal(t, 1, fs.WriteCount(modulePath))
	assert.Equal(t, 2, fs.WriteCount(workspacePath))

	module := fs.ReadString(modulePath)
	assert.Contains(t, module, `<excludeFolder url="file://$MODULE_DIR$/build"/>`)

	ws := fs.ReadString(workspacePath)
	assert.Contains(t, ws, `<configuration name="PHPUnit" type="PHPUnitRunConfigurationType" factoryName="PHPUnit">`)
	assert.Contains(t, ws, `<wordpressPath>$PROJECT_DIR$/wp</wordpressPath>`)

	assert.Empty(t, messagesFor(pass, TaskExcludeFolders, report.SeverityError))
}

func TestRun_SecondPassWritesNothing(t *testing.T) {
	fs := fullProject().Build()

	runPass(t, fs, Options{})
	writes := fs.TotalWrites()
	module := fs.ReadString(modulePath)
	ws := fs.ReadString(workspacePath)

	pass := runPass(t, fs, Options{})

	assert.Empty(t, pass.Written())
	assert.Equal(t, writes, fs.TotalWrites())
	assert.Equal(t, module, fs.ReadString(modulePath))
	assert.Equal(t, ws, fs.ReadString(workspacePath))
	assert.Equal(t, []string{`PhpStorm config already excludes "build".`}, messagesFor(pass, TaskExcludeFolders, report.SeverityInfo))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fs := fullProject().Build()
	before := fs.ReadString(modulePath)

	pass := runPass(t, fs, Options{DryRun: true})

	assert.ElementsMatch(t, []string{modulePath, workspacePath}, pass.Written())
	assert.Zero(t, fs.TotalWrites())
	assert.Equal(t, before, fs.ReadString(modulePath))
}

func TestRun_TasksAreIndependent(t *testing.T) {
	fs := fullProject().
		WithModuleFile("project.iml", "<module").
		Build()

	pass := runPass(t, fs, Options{})

	assert.Equal(t, []string{
		`Could not parse XML for PhpStorm .iml file at "/project/.idea/project.iml".`,
	}, messagesFor(pass, TaskExcludeFolders, report.SeverityInfo))
	assert.Zero(t, fs.WriteCount(modulePath))
	assert.Equal(t, []string{workspacePath}, pass.Written())
}

func TestRun_SelectedTasksOnly(t *testing.T) {
	fs := fullProject().Build()

	pass := runPass(t, fs, Options{}, TaskWordPress)

	require.Len(t, pass.Results, 1)
	assert.Equal(t, TaskWordPress, pass.Results[0].Task)
	assert.Zero(t, fs.WriteCount(modulePath))
	assert.Equal(t, 1, fs.WriteCount(workspacePath))
}

func TestRun_WordPressShapeWarning(t *testing.T) {
	fs := workspace.NewProjectBuilder("/project").
		WithComposerJSON(`{"extra": {"wordpress-install-dir": 5}}`).
		WithWorkspaceXML(workspace.WorkspaceXML()).
		Build()

	pass := runPass(t, fs, Options{}, TaskWordPress)

	assert.Equal(t, []string{
		"Ignoring composer.json extra.wordpress-install-dir: expected a string or a list of strings.",
	}, messagesFor(pass, TaskWordPress, report.SeverityError))
	assert.Zero(t, fs.TotalWrites())
}

func TestRun_ExclusionNoticesNameModuleFile(t *testing.T) {
	fs := workspace.NewProjectBuilder("/project").
		WithComposerJSON(`{"extra": {
			"phpstorm": {"exclude_folders": {"include_folders": ["x"], "folders": ["x", "build"]}},
			"symlinks": {"vendor/acme/lib": "build"}
		}}`).
		WithModuleFile("project.iml", workspace.ModuleXML()).
		AddFolder("x", "build").
		Build()

	pass := runPass(t, fs, Options{}, TaskExcludeFolders)

	documents := map[string]string{}
	for _, n := range pass.Notices {
		documents[n.Message] = n.Document
	}

	conflict := `Folder "x" in both include and exclude list.`
	skipped := `Skipping excluding "vendor/acme/lib" because symlink "build" is already excluded.`
	require.Contains(t, documents, conflict)
	require.Contains(t, documents, skipped)
	assert.Equal(t, modulePath, documents[conflict])
	assert.Equal(t, modulePath, documents[skipped])
	for _, n := range pass.Notices {
		assert.Equal(t, modulePath, n.Document, n.Message)
	}
}

func TestRun_UnknownTask(t *testing.T) {
	fs := fullProject().Build()

	pass, err := NewRunner(fs, zerolog.Nop(), Options{}).Run(context.Background(), Task("bogus"), TaskWordPress)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "bogus"`)
	require.NotNil(t, pass)
	assert.Equal(t, []string{workspacePath}, pass.Written())
}

func TestRun_CancelledContext(t *testing.T) {
	fs := fullProject().Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pass, err := NewRunner(fs, zerolog.Nop(), Options{}).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, pass)
	assert.Empty(t, pass.Results)
	assert.Zero(t, fs.TotalWrites())
}
