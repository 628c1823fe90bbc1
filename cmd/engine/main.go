package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/pflag"

	"venturescope-engine/internal/catalog"
	"venturescope-engine/internal/config"
	"venturescope-engine/internal/directory"
	"venturescope-engine/internal/enrich"
	"venturescope-engine/internal/events"
	"venturescope-engine/internal/httpapi"
	"venturescope-engine/internal/kvstore"
	"venturescope-engine/internal/scheduler"
	"venturescope-engine/internal/workspace"
)

func main() {
	var (
		flagDataDir = pflag.String("data-dir", "", "engine data directory (default: $VENTURESCOPE_DATA_DIR or .)")
		flagAddr    = pflag.String("addr", "", "listen address (default: 127.0.0.1:<config port>)")
		flagCatalog = pflag.String("catalog", "", "path to the company catalog JSON (overrides config)")
	)
	pflag.Parse()

	// Engine data dir: flag wins, then env (the desktop shell passes
	// one), then local folder.
	dataDir := *flagDataDir
	if dataDir == "" {
		dataDir = os.Getenv("VENTURESCOPE_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per workspace. All writes assume a single logical
	// thread of control; a second instance would break that.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("workspace lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine already owns %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	// Catalog: flag > config > bootstrapped data-dir copy.
	catalogPath := *flagCatalog
	if catalogPath == "" {
		catalogPath = cfg.Catalog.Path
	}
	if catalogPath == "" {
		catalogPath, err = catalog.EnsureUserCatalog(dataDir, filepath.Join("config", "catalog.json"))
		if err != nil {
			log.Fatalf("catalog bootstrap failed: %v", err)
		}
	}
	cat, err := catalog.LoadFile(catalogPath)
	if err != nil {
		log.Fatalf("catalog load failed (%s): %v", catalogPath, err)
	}
	log.Printf("catalog loaded: %d companies (%s)", cat.Len(), catalogPath)

	kv, err := kvstore.Open(filepath.Join(dataDir, "workspace.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer kv.Close()

	hub := events.NewHub()

	ws := workspace.New(kv, hub)
	if err := ws.Bootstrap(context.Background()); err != nil {
		log.Fatalf("workspace bootstrap failed: %v", err)
	}

	enricher := enrich.New(enrich.Config{
		UserAgent:         cfg.Enrichment.UserAgent,
		RequestsPerSecond: cfg.Enrichment.RequestsPerSecond,
		Burst:             cfg.Enrichment.Burst,
		KeyringAccount:    cfg.Enrichment.KeyringAccount,
	})

	mux := httpapi.NewMux(httpapi.Deps{
		Workspace:   ws,
		Catalog:     cat,
		Index:       directory.NewIndex(cat),
		Enricher:    enricher,
		Hub:         hub,
		KV:          kv,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := *flagAddr
	if addr == "" {
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownToken, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&shutdownToken, srv))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep the WAL from growing without bound during long sessions.
	go scheduler.Every(ctx, time.Hour, "wal-checkpoint", func(context.Context) error {
		return kv.Checkpoint()
	})

	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)
	log.Printf("shutdown token: %s", shutdownToken)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
