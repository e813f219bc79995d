package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/ledger"
	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

const leaderboardCacheKey = "cache:leaderboard"

// LeaderboardController serves point totals and summary statistics.
type LeaderboardController struct {
	ledger *ledger.Ledger
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(l *ledger.Ledger) *LeaderboardController {
	return &LeaderboardController{ledger: l}
}

// Leaderboard returns per-participant totals, descending, ties broken by
// name. Served from the redis cache when available; the cache is
// invalidated whenever a check-in lands.
func (lc *LeaderboardController) Leaderboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
		var cached []ledger.ParticipantTotal
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	records, err := lc.ledger.Load()
	if err != nil {
		utils.Sugar.Errorf("ledger load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load ledger")
		return
	}

	totals := ledger.Totals(records)
	utils.CacheSetJSON(leaderboardCacheKey, totals, 10*time.Minute)
	utils.Success(ctx, totals)
}

// Stats returns aggregate counters for the whole ledger.
func (lc *LeaderboardController) Stats(ctx *gin.Context) {
	records, err := lc.ledger.Load()
	if err != nil {
		utils.Sugar.Errorf("ledger load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load ledger")
		return
	}

	participants := map[string]bool{}
	today := time.Now().Format(models.DateLayout)
	todayCount := 0
	totalPoints := 0
	for _, r := range records {
		participants[r.ParticipantName] = true
		totalPoints += r.PointsAwarded
		if r.Timestamp.Format(models.DateLayout) == today {
			todayCount++
		}
	}

	utils.Success(ctx, gin.H{
		"checkin_count":     len(records),
		"participant_count": len(participants),
		"points_total":      totalPoints,
		"today_checkins":    todayCount,
	})
}
