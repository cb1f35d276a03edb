package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"brokerage-portal/internal/cache"
	"brokerage-portal/internal/cleanup"
	"brokerage-portal/internal/config"
	"brokerage-portal/internal/content"
	"brokerage-portal/internal/handlers"
	"brokerage-portal/internal/history"
	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/ratelimit"
	"brokerage-portal/internal/scheduler"
	"brokerage-portal/internal/search"
)

var (
	appConfig     *config.Config
	store         mirror.Store
	gormStore     *mirror.GormStore
	cmsClient     *content.Client
	assetResolver *content.AssetResolver
	searchClient  *search.SearchClient
	collCache     *cache.CollectionCache
	rateLimiter   *ratelimit.RateLimiter
	appScheduler  *scheduler.Scheduler
)

func main() {
	// Load .env for local development; missing file is fine
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/portal.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize mirror store based on configuration
	dbCfg := appConfig.Database
	switch dbCfg.Type {
	case "mysql":
		log.Println("Using MySQL mirror with GORM")
		gormStore, err = mirror.NewGormStore(
			dbCfg.MySQL.Host,
			fmt.Sprintf("%d", dbCfg.MySQL.Port),
			dbCfg.MySQL.User,
			dbCfg.MySQL.Password,
			dbCfg.MySQL.Database,
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		store = gormStore
	default:
		log.Println("Using PostgreSQL mirror")
		pg, perr := mirror.NewPostgresStore(
			dbCfg.Postgres.Host,
			fmt.Sprintf("%d", dbCfg.Postgres.Port),
			dbCfg.Postgres.User,
			dbCfg.Postgres.Password,
			dbCfg.Postgres.Database,
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

	// Initialize CMS client
	cmsClient = content.NewClient(
		appConfig.CMS.BaseURL,
		appConfig.CMS.Dataset,
		appConfig.CMS.APIToken,
		appConfig.CMS.GetTimeout(),
	)
	assetResolver = content.NewAssetResolver(appConfig.CMS.CDNBaseURL, appConfig.CMS.Dataset)
	log.Printf("CMS client initialized for dataset %q", appConfig.CMS.Dataset)

	// Initialize collection cache
	if appConfig.Redis.Enabled {
		collCache = cache.New(
			appConfig.Redis.Addr,
			appConfig.Redis.Password,
			appConfig.Redis.DB,
			appConfig.Redis.GetTTL(),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := collCache.Ping(ctx); err != nil {
			log.Printf("Warning: Redis unreachable, collection cache disabled: %v", err)
			collCache = nil
		} else {
			log.Printf("Collection cache initialized (ttl: %s)", appConfig.Redis.GetTTL())
		}
		cancel()
	}

	// Initialize Meilisearch
	if appConfig.Search.Meilisearch.Enabled {
		searchClient = search.NewSearchClient(
			appConfig.Search.Meilisearch.Host,
			appConfig.Search.Meilisearch.APIKey,
			assetResolver,
		)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	// Initialize rate limiter for admin triggers
	rateLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)

	// History and cleanup need raw GORM access, so they only run on MySQL
	var historyService *history.Service
	var cleanupService *cleanup.Service
	if gormStore != nil {
		historyService = history.NewService(gormStore.DB())
		cleanupService = cleanup.NewService(gormStore.DB())
	}

	// Initialize and start the sync scheduler
	appScheduler = scheduler.NewScheduler(
		cmsClient, store, historyService, cleanupService, searchClient, collCache, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()
	r.Use(handlers.RequestID())
	if appConfig.Logging.LogRequests {
		r.Use(handlers.RequestLogger())
	}

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	listingsHandler := handlers.NewListingsHandler(cmsClient, collCache, store, assetResolver, appConfig.Listings.PageSize)
	searchHandler := handlers.NewSearchHandler(searchClient, store)

	// Routes
	r.GET("/health", healthCheck)
	r.GET("/api/listings/:view", listingsHandler.GetListings)
	r.GET("/api/listing/:slug", listingsHandler.GetListing)
	r.GET("/api/filters/options", listingsHandler.GetFilterOptions)
	r.GET("/api/neighborhoods", listingsHandler.GetNeighborhoods)
	r.GET("/api/developers", listingsHandler.GetDevelopers)
	r.GET("/api/lifestyles", listingsHandler.GetLifestyles)

	r.GET("/api/search", searchHandler.Search)
	r.GET("/api/search/facets", searchHandler.Facets)
	r.POST("/api/search/reindex", rateLimitMiddleware(), searchHandler.Reindex)

	r.GET("/api/ratelimit/stats", getRateLimitStats)

	// Admin API routes (MySQL mirror only; requires authentication in production)
	if gormStore != nil {
		adminHandler := handlers.NewAdminHandler(gormStore.DB(), appScheduler)

		admin := r.Group("/api/admin")
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/activity", adminHandler.GetRecentActivity)
			admin.GET("/neighborhood-stats", adminHandler.GetNeighborhoodStats)
			admin.GET("/price-distribution", adminHandler.GetPriceDistribution)

			admin.POST("/sync/trigger", rateLimitMiddleware(), adminHandler.TriggerSync)
			admin.GET("/sync/status", adminHandler.GetSyncStatus)

			admin.POST("/cleanup/run", rateLimitMiddleware(), adminHandler.RunCleanup)
			admin.GET("/cleanup/logs", adminHandler.GetPurgeLogs)

			admin.GET("/listings/:id/history", adminHandler.GetListingHistory)
			admin.GET("/changes/recent", adminHandler.GetRecentChanges)
		}

		log.Println("Admin API routes registered at /api/admin/*")
	}

	port := fmt.Sprintf("%d", appConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// rateLimitMiddleware returns a Gin middleware that enforces rate limiting
func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimiter.AllowRequest() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   rateLimiter.GetStats(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, rateLimiter.GetStats())
}
