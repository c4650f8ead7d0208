package reconcile

import (
	"errors"
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/composer"
	"github.com/jakoblorz/go-ideasync/internal/exclusion"
	"github.com/jakoblorz/go-ideasync/internal/idea"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/runconfig"
	"github.com/jakoblorz/go-ideasync/internal/wordpress"
)

// Task names a unit of reconciliation within a pass.
type Task string

const (
	TaskExcludeFolders    Task = "exclude-folders"
	TaskRunConfigurations Task = "run-configurations"
	TaskWordPress         Task = "wordpress"
)

// DefaultTasks is what a full sync runs, in order.
var DefaultTasks = []Task{TaskExcludeFolders, TaskRunConfigurations, TaskWordPress}

// TaskResult describes the document a task worked on.
type TaskResult struct {
	Task     Task
	Document string
	Written  bool
}

type taskFunc func(rc *RunContext) (TaskResult, error)

func (t Task) run() (taskFunc, error) {
	switch t {
	case TaskExcludeFolders:
		return excludeFolders, nil
	case TaskRunConfigurations:
		return runConfigurations, nil
	case TaskWordPress:
		return configureWordPress, nil
	default:
		return nil, fmt.Errorf("unknown task %q", t)
	}
}

func (rc *RunContext) checkIdeaDir() bool {
	if rc.Workspace.HasIdeaDir() {
		return true
	}
	rc.Report.Info(fmt.Sprintf(`PhpStorm project folder "%s" does not exist. Maybe this project has not been opened in PhpStorm yet.`, rc.IdeaDirDisplay()),
		report.WithPath(rc.Project.IdeaDir()))
	return false
}

func excludeFolders(rc *RunContext) (TaskResult, error) {
	result := TaskResult{Task: TaskExcludeFolders}
	if !rc.checkIdeaDir() {
		return result, nil
	}

	modules, err := rc.Workspace.ModuleFiles()
	if err != nil {
		return result, err
	}
	switch {
	case len(modules) == 0:
		rc.Report.Info(fmt.Sprintf(`No PhpStorm .iml file found in "%s".`, rc.IdeaDirDisplay()),
			report.WithPath(rc.Project.IdeaDir()))
		return result, nil
	case len(modules) > 1:
		rc.Report.Info(fmt.Sprintf(`Unexpectedly found more than one .iml file in "%s".`, rc.IdeaDirDisplay()),
			report.WithPath(rc.Project.IdeaDir()))
		return result, nil
	}

	result.Document = modules[0]
	doc, err := idea.Load(rc.FS, modules[0])
	if err != nil {
		if errors.Is(err, idea.ErrNotFound) {
			rc.Report.Info(fmt.Sprintf(`No PhpStorm .iml file found in "%s".`, rc.IdeaDirDisplay()),
				report.WithPath(rc.Project.IdeaDir()))
			return result, nil
		}
		rc.Logger.Debug().Err(err).Msg("module file not parsed")
		rc.Report.Info(fmt.Sprintf(`Could not parse XML for PhpStorm .iml file at "%s".`, modules[0]),
			report.WithDocument(modules[0]))
		return result, nil
	}

	content := idea.FindContent(doc.Root())
	if content == nil {
		rc.Report.Info(fmt.Sprintf(`No content node found in PhpStorm .iml file at "%s".`, doc.Path),
			report.WithDocument(doc.Path))
		return result, nil
	}

	desired := exclusion.BuildDesired(rc.Extra, rc.Requires, rc.Report.ForDocument(doc.Path))
	exclusion.NewReconciler(rc.FS, rc.Project.RootPath, rc.Report, rc.Logger).Reconcile(doc, content, desired)

	result.Written, err = rc.save(doc)
	return result, err
}

// loadWorkspaceXML applies the prerequisites shared by the workspace.xml
// tasks. A nil document means the task should stop.
func (rc *RunContext) loadWorkspaceXML() *idea.Document {
	if !rc.checkIdeaDir() {
		return nil
	}

	path := rc.Project.WorkspaceXMLPath()
	doc, err := idea.Load(rc.FS, path)
	switch {
	case err == nil:
		return doc
	case errors.Is(err, idea.ErrNotFound):
		rc.Report.Info(fmt.Sprintf(`No PhpStorm workspace.xml file found in "%s".`, rc.IdeaDirDisplay()),
			report.WithPath(rc.Project.IdeaDir()))
	default:
		rc.Logger.Debug().Err(err).Msg("workspace.xml not parsed")
		rc.Report.Info(fmt.Sprintf(`Could not parse XML for PhpStorm workspace.xml file at "%s".`, path),
			report.WithDocument(path))
	}
	return nil
}

func runConfigurations(rc *RunContext) (TaskResult, error) {
	result := TaskResult{Task: TaskRunConfigurations}

	doc := rc.loadWorkspaceXML()
	if doc == nil {
		return result, nil
	}
	result.Document = doc.Path

	discovered, err := runconfig.Discover(rc.FS, rc.Project.RootPath, rc.DiscoveryIgnore)
	if err != nil {
		return result, err
	}

	runconfig.NewReconciler(rc.FS, rc.Project.RootPath, rc.Report, rc.Logger).Reconcile(doc, discovered)

	result.Written, err = rc.save(doc)
	return result, err
}

func configureWordPress(rc *RunContext) (TaskResult, error) {
	result := TaskResult{Task: TaskWordPress}

	doc := rc.loadWorkspaceXML()
	if doc == nil {
		return result, nil
	}
	result.Document = doc.Path

	for _, w := range rc.Extra.WarningsFor(composer.ScopeWordPress) {
		rc.Report.Error(w.String())
	}

	candidates := wordpress.Candidates(rc.Extra.WordPressInstallDirs)
	wordpress.NewReconciler(rc.FS, rc.Project.RootPath, rc.Report, rc.Logger).Reconcile(doc, candidates)

	var err error
	result.Written, err = rc.save(doc)
	return result, err
}
