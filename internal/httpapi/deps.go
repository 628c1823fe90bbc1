package httpapi

import (
	"sync/atomic"

	"venturescope-engine/internal/catalog"
	"venturescope-engine/internal/config"
	"venturescope-engine/internal/directory"
	"venturescope-engine/internal/enrich"
	"venturescope-engine/internal/events"
	"venturescope-engine/internal/kvstore"
	"venturescope-engine/internal/workspace"
)

type Deps struct {
	Workspace *workspace.Workspace
	Catalog   *catalog.Catalog
	Index     *directory.Index
	Enricher  *enrich.Client
	Hub       *events.Hub

	// KV is the concrete store, needed for WAL checkpoints.
	KV *kvstore.SQLite

	// Config persistence
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
