package wordpress

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/idea"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/rs/zerolog"
)

// ConfigurationComponent is the workspace.xml component for WordPress support.
const ConfigurationComponent = "WordPressConfiguration"

// Result describes the outcome of a reconciliation.
type Result struct {
	AlreadyConfigured bool
	Found             bool
	Location          string
	Added             bool
}

// Reconciler configures the WordPress path in a workspace.xml document.
type Reconciler struct {
	fs     filesystem.FileSystem
	root   string
	report *report.Collector
	logger zerolog.Logger
}

// NewReconciler creates a Reconciler for the project at root.
func NewReconciler(fs filesystem.FileSystem, root string, collector *report.Collector, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		fs:     fs,
		root:   root,
		report: collector,
		logger: logger,
	}
}

// Reconcile sets the WordPress path unless the component is already
// configured. An existing configuration is never overwritten.
func (r *Reconciler) Reconcile(doc *idea.Document, candidates []string) Result {
	var result Result

	component, created := idea.FindOrCreateComponent(doc.Root(), ConfigurationComponent)
	if idea.HasChildElements(component) {
		r.report.Debug("Already configured.", report.WithDocument(doc.Path))
		result.AlreadyConfigured = true
		return result
	}

	location, found := Detect(r.fs, r.root, candidates, r.report)
	if !found {
		r.report.Debug("WordPress not found in project.", report.WithDocument(doc.Path))
		if created {
			doc.Root().RemoveChild(component)
		}
		return result
	}

	result.Found = true
	result.Location = location

	wordpressPath := models.ProjectDirMacro + "/" + location
	component.CreateElement("wordpressPath").SetText(wordpressPath)
	component.CreateAttr("enabled", "true")
	doc.MarkModified()
	result.Added = true

	r.report.Info(fmt.Sprintf(`Added WordPress path "%s" to "%s".`, wordpressPath, doc.Path),
		report.WithPath(location), report.WithDocument(doc.Path))
	r.logger.Debug().Str("document", doc.Path).Str("location", location).Msg("wordpress path configured")

	return result
}
