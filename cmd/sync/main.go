package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"brokerage-portal/internal/cache"
	"brokerage-portal/internal/cleanup"
	"brokerage-portal/internal/config"
	"brokerage-portal/internal/content"
	"brokerage-portal/internal/history"
	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/scheduler"
	"brokerage-portal/internal/search"
)

// One-shot CMS sync, for cron-less deployments and manual runs.
func main() {
	configPath := flag.String("config", "config/portal.yaml", "path to config file")
	skipSearch := flag.Bool("skip-search", false, "skip the search reindex stage")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var store mirror.Store
	var gormStore *mirror.GormStore
	switch cfg.Database.Type {
	case "mysql":
		gormStore, err = mirror.NewGormStore(
			cfg.Database.MySQL.Host,
			fmt.Sprintf("%d", cfg.Database.MySQL.Port),
			cfg.Database.MySQL.User,
			cfg.Database.MySQL.Password,
			cfg.Database.MySQL.Database,
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		store = gormStore
	default:
		pg, perr := mirror.NewPostgresStore(
			cfg.Database.Postgres.Host,
			fmt.Sprintf("%d", cfg.Database.Postgres.Port),
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.Database,
		)
		if perr != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", perr)
		}
		store = pg
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize mirror schema: %v", err)
	}

	cms := content.NewClient(cfg.CMS.BaseURL, cfg.CMS.Dataset, cfg.CMS.APIToken, cfg.CMS.GetTimeout())

	var historyService *history.Service
	var cleanupService *cleanup.Service
	if gormStore != nil {
		historyService = history.NewService(gormStore.DB())
		cleanupService = cleanup.NewService(gormStore.DB())
	}

	var searchClient *search.SearchClient
	if cfg.Search.Meilisearch.Enabled && !*skipSearch {
		assets := content.NewAssetResolver(cfg.CMS.CDNBaseURL, cfg.CMS.Dataset)
		searchClient = search.NewSearchClient(cfg.Search.Meilisearch.Host, cfg.Search.Meilisearch.APIKey, assets)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	var collCache *cache.CollectionCache
	if cfg.Redis.Enabled {
		collCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.GetTTL())
		if err := collCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, skipping cache invalidation: %v", err)
			collCache = nil
		}
	}

	sched := scheduler.NewScheduler(cms, store, historyService, cleanupService, searchClient, collCache, cfg)
	if err := sched.RunNow(context.Background()); err != nil {
		log.Printf("Sync failed: %v", err)
		os.Exit(1)
	}
}
