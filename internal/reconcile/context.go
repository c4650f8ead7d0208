// Package reconcile runs synchronization passes: it detects the project,
// then runs each requested task against its own PhpStorm document.
package reconcile

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/composer"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/idea"
	"github.com/jakoblorz/go-ideasync/internal/models"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/workspace"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

const passIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RunContext carries everything a task needs for one pass. It is built once
// per pass and handed to each task explicitly.
type RunContext struct {
	FS              filesystem.FileSystem
	Workspace       *workspace.Workspace
	Project         *models.Project
	Extra           *composer.Extra
	Requires        []string
	DiscoveryIgnore []string
	DryRun          bool
	Report          *report.Collector
	Logger          zerolog.Logger
	PassID          string
}

// IdeaDirDisplay is the .idea folder as printed in notices.
func (rc *RunContext) IdeaDirDisplay() string {
	return rc.Project.IdeaDirDisplay()
}

// save writes doc if it was modified, honoring dry-run.
func (rc *RunContext) save(doc *idea.Document) (bool, error) {
	written, err := doc.Save(rc.FS, idea.DryRun(rc.DryRun))
	if err != nil {
		return false, err
	}
	if written {
		rc.Logger.Info().Str("document", doc.Path).Bool("dry_run", rc.DryRun).Msg("document written")
	}
	return written, nil
}

func newPassID() (string, error) {
	id, err := gonanoid.Generate(passIDAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate pass id: %w", err)
	}
	return id, nil
}
