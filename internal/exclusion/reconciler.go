package exclusion

import (
	"fmt"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/idea"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/rs/zerolog"
)

const (
	excludeFolderTag = "excludeFolder"
	urlAttr          = "url"
)

// Result lists what a reconciliation did, by normalized path.
type Result struct {
	Added           []string
	AlreadyExcluded []string
	Skipped         []string
	Removed         []string
	Conflicts       []string
}

// Reconciler applies a desired ExclusionSet to a module's content node.
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

// Reconcile adds missing excludes for folders that exist on disk, then
// removes excludes for included folders. Entries not named by the desired
// set are left alone.
func (r *Reconciler) Reconcile(doc *idea.Document, content *etree.Element, desired *models.ExclusionSet) Result {
	result := Result{Conflicts: desired.Conflicts()}
	existing := indexExcludes(content)

	for _, p := range desired.Excludes() {
		if !r.fs.Exists(filepath.Join(r.root, filepath.FromSlash(p))) {
			r.report.Info(fmt.Sprintf(`Folder "%s" not found – not processed for PhpStorm excludeFolder.`, p),
				report.WithPath(p), report.WithDocument(doc.Path))
			result.Skipped = append(result.Skipped, p)
			continue
		}

		url := models.ExcludeFolderURL(p)
		if _, ok := existing[url]; ok {
			r.report.Info(fmt.Sprintf(`PhpStorm config already excludes "%s".`, p),
				report.WithPath(p), report.WithDocument(doc.Path))
			result.AlreadyExcluded = append(result.AlreadyExcluded, p)
			continue
		}

		el := content.CreateElement(excludeFolderTag)
		el.CreateAttr(urlAttr, url)
		existing[url] = append(existing[url], el)
		doc.MarkModified()

		r.report.Info(fmt.Sprintf(`Added "%s" to PhpStorm config at "%s".`, p, doc.Path),
			report.WithPath(p), report.WithDocument(doc.Path))
		result.Added = append(result.Added, p)
	}

	for _, p := range desired.Includes() {
		url := models.ExcludeFolderURL(p)
		entries, ok := existing[url]
		if !ok {
			continue
		}

		for _, el := range entries {
			content.RemoveChild(el)
		}
		delete(existing, url)
		doc.MarkModified()

		r.report.Info(fmt.Sprintf(`PhpStorm config exclusion removed for "%s".`, p),
			report.WithPath(p), report.WithDocument(doc.Path))
		result.Removed = append(result.Removed, p)
	}

	r.logger.Debug().
		Str("document", doc.Path).
		Int("added", len(result.Added)).
		Int("removed", len(result.Removed)).
		Int("skipped", len(result.Skipped)).
		Msg("exclusions reconciled")

	return result
}

// indexExcludes maps each excludeFolder url to its elements.
func indexExcludes(content *etree.Element) map[string][]*etree.Element {
	index := make(map[string][]*etree.Element)
	for _, el := range content.ChildElements() {
		if el.Tag != excludeFolderTag {
			continue
		}
		url := el.SelectAttrValue(urlAttr, "")
		index[url] = append(index[url], el)
	}
	return index
}
