package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brokerage-portal/internal/cleanup"
	"brokerage-portal/internal/history"
	"brokerage-portal/internal/models"
	"brokerage-portal/internal/scheduler"
)

// AdminHandler handles admin-related requests. The admin surface reads from
// the MySQL mirror directly; it is not served when the Postgres backend is
// selected.
type AdminHandler struct {
	db             *gorm.DB
	scheduler      *scheduler.Scheduler
	historyService *history.Service
	cleanupService *cleanup.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{
		db:             db,
		scheduler:      sched,
		historyService: history.NewService(db),
		cleanupService: cleanup.NewService(db),
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	// Listing counts by status
	var activeCount, removedCount int64
	h.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive).Count(&activeCount)
	h.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusRemoved).Count(&removedCount)

	stats["listings"] = map[string]interface{}{
		"active":  activeCount,
		"removed": removedCount,
		"total":   activeCount + removedCount,
	}

	// Recent sync activity (last 24 hours)
	last24h := time.Now().AddDate(0, 0, -1)
	var recentlyFetched int64
	h.db.Model(&models.Listing{}).Where("fetched_at >= ?", last24h).Count(&recentlyFetched)
	stats["recent_activity"] = map[string]interface{}{
		"fetched_last_24h": recentlyFetched,
	}

	// Snapshot statistics
	var snapshotCount int64
	h.db.Model(&models.ListingSnapshot{}).Count(&snapshotCount)
	stats["snapshots"] = map[string]interface{}{
		"total": snapshotCount,
	}

	// Listing changes (last 7 days)
	last7days := time.Now().AddDate(0, 0, -7)
	var recentChanges int64
	h.db.Model(&models.ListingChange{}).Where("detected_at >= ?", last7days).Count(&recentChanges)
	stats["changes"] = map[string]interface{}{
		"last_7_days": recentChanges,
	}

	// Purge statistics
	purgeStats, err := h.cleanupService.GetPurgeStats()
	if err != nil {
		log.Printf("[Admin] failed to get purge stats: %v", err)
	} else {
		stats["purges"] = purgeStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns recently synced listings
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	var listings []models.Listing
	err := h.db.Order("fetched_at DESC").Limit(limit).Find(&listings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// TriggerSync manually triggers the CMS sync
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("[Admin] manual sync trigger requested")

	// Run in goroutine to avoid blocking; the request context dies with the
	// response, so the job gets its own.
	go func() {
		if err := h.scheduler.RunNow(context.Background()); err != nil {
			log.Printf("[Admin] manual sync failed: %v", err)
		} else {
			log.Println("[Admin] manual sync completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Sync job started",
		"status":  "running",
	})
}

// GetSyncStatus returns the scheduler state
func (h *AdminHandler) GetSyncStatus(c *gin.Context) {
	status := gin.H{"scheduled": false}
	if h.scheduler != nil {
		if next := h.scheduler.NextRun(); next != nil {
			status["scheduled"] = true
			status["next_run"] = next
		}
	}
	c.JSON(http.StatusOK, status)
}

// RunCleanup executes physical deletion of long-removed listings
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default: 90)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 10000)
		DryRun           bool `json:"dry_run"`            // Dry run mode
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	config := cleanup.DefaultConfig()
	if req.RetentionDays > 0 {
		config.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	log.Printf("[Admin] running cleanup (retention: %d days, max: %d, dry-run: %v)",
		config.RetentionDays, config.MaxDeletionCount, config.DryRun)

	result, err := h.cleanupService.Purge(config)
	if err != nil {
		log.Printf("[Admin] cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPurgeLogs returns recent purge log entries
func (h *AdminHandler) GetPurgeLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentPurgeLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetListingHistory returns snapshot history for a listing
func (h *AdminHandler) GetListingHistory(c *gin.Context) {
	listingID := c.Param("id")
	limitStr := c.DefaultQuery("limit", "30")
	limit, _ := strconv.Atoi(limitStr)

	snapshots, err := h.historyService.GetListingHistory(listingID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": listingID,
		"snapshots":  snapshots,
		"count":      len(snapshots),
	})
}

// GetRecentChanges returns recent listing changes
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	changes, err := h.historyService.GetRecentChanges(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
	})
}

// GetNeighborhoodStats returns active listing counts per neighborhood
func (h *AdminHandler) GetNeighborhoodStats(c *gin.Context) {
	type NeighborhoodStat struct {
		Neighborhood string `json:"neighborhood"`
		Count        int64  `json:"count"`
	}

	var stats []NeighborhoodStat
	err := h.db.Model(&models.Listing{}).
		Select("neighborhood_name as neighborhood, count(*) as count").
		Where("status = ? AND neighborhood_name IS NOT NULL AND neighborhood_name != ''", models.ListingStatusActive).
		Group("neighborhood_name").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"neighborhood_stats": stats,
		"count":              len(stats),
	})
}

// GetPriceDistribution returns listing price distribution
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string  `json:"range_label"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		Count      int64   `json:"count"`
	}

	ranges := []PriceRange{
		{RangeLabel: "Under 1M", MinPrice: 0, MaxPrice: 1_000_000},
		{RangeLabel: "1M - 3M", MinPrice: 1_000_000, MaxPrice: 3_000_000},
		{RangeLabel: "3M - 5M", MinPrice: 3_000_000, MaxPrice: 5_000_000},
		{RangeLabel: "5M - 10M", MinPrice: 5_000_000, MaxPrice: 10_000_000},
		{RangeLabel: "10M - 25M", MinPrice: 10_000_000, MaxPrice: 25_000_000},
		{RangeLabel: "25M and above", MinPrice: 25_000_000, MaxPrice: 100_000_000},
	}

	for i := range ranges {
		var count int64
		h.db.Model(&models.Listing{}).
			Where("status = ? AND price >= ? AND price < ?",
				models.ListingStatusActive, ranges[i].MinPrice, ranges[i].MaxPrice).
			Count(&count)
		ranges[i].Count = count
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": ranges,
	})
}
