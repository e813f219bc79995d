package controllers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/config"
	"github.com/ruei-yu/activity-checkin-points/ledger"
	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

// CheckinController handles bulk check-ins and ledger queries.
type CheckinController struct {
	ledger  *ledger.Ledger
	catalog *points.Catalog
}

// NewCheckinController creates a new controller instance.
func NewCheckinController(l *ledger.Ledger, catalog *points.Catalog) *CheckinController {
	return &CheckinController{ledger: l, catalog: catalog}
}

// Checkin records a bulk check-in against an event token. Duplicates are
// per-name, non-fatal outcomes reported alongside the accepted names; an
// unknown category or an empty name list rejects the whole attempt.
func (c *CheckinController) Checkin(ctx *gin.Context) {
	var req struct {
		Event string `json:"event"`
		Names string `json:"names" binding:"required"`
		Note  string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	d := utils.DecodeEvent(req.Event)
	res, err := c.ledger.RecordBatch(c.catalog, d, utils.Sanitize(req.Names), utils.Sanitize(req.Note))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNoNames):
			utils.Error(ctx, http.StatusBadRequest, 40021, "at least one participant name is required")
		case errors.Is(err, ledger.ErrUnknownCategory):
			utils.Error(ctx, http.StatusBadRequest, 40022, "this link carries no valid category, regenerate it")
		default:
			utils.Sugar.Errorf("check-in append failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to record check-in")
		}
		return
	}

	utils.Sugar.Infow("check-in recorded",
		"batch_id", res.BatchID,
		"event_title", res.EventTitle,
		"event_date", res.EventDate,
		"category", res.Category,
		"accepted", len(res.Accepted),
		"duplicates", len(res.Duplicates),
	)
	utils.InvalidateByPrefix("cache:")
	utils.Success(ctx, res)
}

// List returns ledger records, newest first, with composable filters:
// participant, category, title (substring), date (exact event date), and
// from/to bounding the record timestamp.
func (c *CheckinController) List(ctx *gin.Context) {
	f, ok := filterFromQuery(ctx)
	if !ok {
		return
	}

	records, err := c.ledger.Load()
	if err != nil {
		utils.Sugar.Errorf("ledger load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load ledger")
		return
	}

	filtered := ledger.Apply(records, f)
	sortNewestFirst(filtered)
	utils.Success(ctx, gin.H{
		"total":   len(filtered),
		"records": filtered,
	})
}

// Participant returns one participant's records, points total, unlocked
// rewards, and the next unmet threshold.
func (c *CheckinController) Participant(ctx *gin.Context) {
	name := utils.NormalizeName(utils.Sanitize(ctx.Param("name")))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "participant name is required")
		return
	}
	f, ok := filterFromQuery(ctx)
	if !ok {
		return
	}
	f.Participant = name

	records, err := c.ledger.Load()
	if err != nil {
		utils.Sugar.Errorf("ledger load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load ledger")
		return
	}

	mine := ledger.Apply(records, f)
	sortNewestFirst(mine)
	total := ledger.SumPoints(mine)

	rewards := config.Get().Rewards
	next := gin.H{"max_reached": true}
	if gap, rule, ok := points.NextUnmet(total, rewards); ok {
		next = gin.H{
			"max_reached": false,
			"gap":         gap,
			"threshold":   rule.Threshold,
			"reward":      rule.Reward,
		}
	}

	utils.Success(ctx, gin.H{
		"participant_name": name,
		"total_points":     total,
		"unlocked":         points.Unlocked(total, rewards),
		"next":             next,
		"records":          mine,
	})
}

// Export streams the full ledger as a CSV download, newest first.
func (c *CheckinController) Export(ctx *gin.Context) {
	records, err := c.ledger.Load()
	if err != nil {
		utils.Sugar.Errorf("ledger load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load ledger")
		return
	}
	sortNewestFirst(records)

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="checkins.csv"`)
	w := csv.NewWriter(ctx.Writer)
	_ = w.Write([]string{"timestamp", "participant_name", "category", "points_awarded", "note", "event_date", "event_title"})
	for _, r := range records {
		_ = w.Write([]string{
			r.Timestamp.Format(models.TimestampLayout),
			r.ParticipantName,
			r.Category,
			strconv.Itoa(r.PointsAwarded),
			r.Note,
			r.EventDate,
			r.EventTitle,
		})
	}
	w.Flush()
}

// filterFromQuery parses the shared filter query parameters. On a bad
// date it answers 400 itself and returns ok=false.
func filterFromQuery(ctx *gin.Context) (ledger.Filter, bool) {
	f := ledger.Filter{
		Participant:   ctx.Query("participant"),
		Category:      ctx.Query("category"),
		TitleContains: ctx.Query("title"),
		EventDate:     ctx.Query("date"),
	}
	if f.EventDate != "" {
		if _, err := time.Parse(models.DateLayout, f.EventDate); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40024, "date must be YYYY-MM-DD")
			return ledger.Filter{}, false
		}
	}
	for _, bound := range []struct {
		key string
		dst **time.Time
	}{
		{"from", &f.From},
		{"to", &f.To},
	} {
		if v := ctx.Query(bound.key); v != "" {
			t, err := time.ParseInLocation(models.DateLayout, v, time.Local)
			if err != nil {
				utils.Error(ctx, http.StatusBadRequest, 40024, bound.key+" must be YYYY-MM-DD")
				return ledger.Filter{}, false
			}
			*bound.dst = &t
		}
	}
	return f, true
}

// sortNewestFirst is the display order; the store itself keeps write order.
func sortNewestFirst(records []models.CheckinRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
