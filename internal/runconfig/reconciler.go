package runconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/idea"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/rs/zerolog"
)

// ManagerComponent is the workspace.xml component holding run configurations.
const ManagerComponent = "RunManager"

const (
	configurationTag  = "configuration"
	testRunnerTag     = "TestRunner"
	methodTag         = "method"
	configurationFile = "configuration_file"
)

// Result lists what a reconciliation did.
type Result struct {
	Added          []models.RunConfiguration
	Removed        []models.RunConfiguration
	AlreadyPresent []models.RunConfiguration
}

// Reconciler applies discovered phpunit.xml files to a workspace.xml document.
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

// Reconcile prunes PHPUnit run configurations whose file is gone, then adds
// one for every discovered file that is not registered yet. An empty
// RunManager is not left behind.
func (r *Reconciler) Reconcile(doc *idea.Document, discovered []string) Result {
	var result Result

	manager, created := idea.FindOrCreateComponent(doc.Root(), ManagerComponent)

	for _, cfg := range phpunitConfigurations(manager) {
		if cfg.file == "" || r.fs.Exists(r.resolve(cfg.file)) {
			continue
		}

		manager.RemoveChild(cfg.el)
		doc.MarkModified()

		rc := models.RunConfiguration{Name: cfg.name, ConfigurationFile: cfg.file}
		result.Removed = append(result.Removed, rc)
		r.report.Info(fmt.Sprintf("Removed PHPUnit Run Configuration \"%s\" at `%s` from \"%s\".", rc.Name, rc.ConfigurationFile, doc.Path),
			report.WithPath(r.resolve(cfg.file)), report.WithDocument(doc.Path))
	}

	registered := make(map[string]struct{})
	for _, cfg := range phpunitConfigurations(manager) {
		registered[cfg.file] = struct{}{}
	}

	for _, rel := range discovered {
		rc := models.NewRunConfiguration(rel)
		display := models.DisplayPath(rc.ConfigurationFile)

		if _, ok := registered[rc.ConfigurationFile]; ok {
			r.report.Info(fmt.Sprintf(`PhpStorm PHPUnit Run Configuration "%s" for "%s" already present in "%s".`, rc.Name, display, doc.Path),
				report.WithPath(r.resolve(rc.ConfigurationFile)), report.WithDocument(doc.Path))
			result.AlreadyPresent = append(result.AlreadyPresent, rc)
			continue
		}

		appendConfiguration(manager, rc)
		registered[rc.ConfigurationFile] = struct{}{}
		doc.MarkModified()

		r.report.Info(fmt.Sprintf("Added PHPStorm Run Configuration \"%s\" for `%s` to \"%s\".", rc.Name, display, doc.Path),
			report.WithPath(r.resolve(rc.ConfigurationFile)), report.WithDocument(doc.Path))
		result.Added = append(result.Added, rc)
	}

	if !idea.HasChildElements(manager) && (created || doc.Modified()) {
		doc.Root().RemoveChild(manager)
	}

	r.logger.Debug().
		Str("document", doc.Path).
		Int("added", len(result.Added)).
		Int("removed", len(result.Removed)).
		Msg("run configurations reconciled")

	return result
}

// resolve maps a $PROJECT_DIR$ path to the filesystem.
func (r *Reconciler) resolve(configFile string) string {
	return filepath.FromSlash(strings.Replace(configFile, models.ProjectDirMacro, r.root, 1))
}

type configuration struct {
	el   *etree.Element
	name string
	file string
}

// phpunitConfigurations lists the PHPUnit run configurations under manager.
// Configurations of other types are never touched.
func phpunitConfigurations(manager *etree.Element) []configuration {
	var out []configuration
	for _, el := range manager.ChildElements() {
		if el.Tag != configurationTag || el.SelectAttrValue("type", "") != models.RunConfigurationType {
			continue
		}

		cfg := configuration{el: el, name: el.SelectAttrValue("name", "")}
		for _, child := range el.ChildElements() {
			if child.Tag == testRunnerTag {
				cfg.file = child.SelectAttrValue(configurationFile, "")
				break
			}
		}
		out = append(out, cfg)
	}
	return out
}

func appendConfiguration(manager *etree.Element, rc models.RunConfiguration) {
	el := manager.CreateElement(configurationTag)
	el.CreateAttr("name", rc.Name)
	el.CreateAttr("type", models.RunConfigurationType)
	el.CreateAttr("factoryName", models.RunConfigurationFactoryName)

	runner := el.CreateElement(testRunnerTag)
	runner.CreateAttr(configurationFile, rc.ConfigurationFile)
	runner.CreateAttr("scope", models.RunConfigurationScope)
	runner.CreateAttr("use_alternative_configuration_file", "true")

	el.CreateElement(methodTag).CreateAttr("v", models.RunConfigurationMethodV)
}
