package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

// EventController generates check-in links/QR codes and previews tokens.
type EventController struct {
	catalog *points.Catalog
}

// NewEventController creates a new controller instance.
func NewEventController(catalog *points.Catalog) *EventController {
	return &EventController{catalog: catalog}
}

// GenerateLink packs an event descriptor into a token and, when a public
// base URL is supplied, into a ready-to-scan check-in link.
func (e *EventController) GenerateLink(ctx *gin.Context) {
	var req struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		Category string `json:"category" binding:"required"`
		Date     string `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	if _, ok := e.catalog.Lookup(req.Category); !ok {
		utils.Error(ctx, http.StatusBadRequest, 40011, "unknown category: "+req.Category)
		return
	}
	if req.Date != "" {
		if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40012, "date must be YYYY-MM-DD")
			return
		}
	}

	token := utils.EncodeEvent(models.EventDescriptor{
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		Category: req.Category,
		Date:     req.Date,
	})

	data := gin.H{"event": token}
	if base := strings.TrimSpace(req.URL); base != "" {
		data["checkin_url"] = checkinURL(base, token)
	}
	utils.Success(ctx, data)
}

// QR renders the check-in link for a token into a scannable PNG.
func (e *EventController) QR(ctx *gin.Context) {
	base := strings.TrimSpace(ctx.Query("url"))
	if base == "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, "url query parameter is required")
		return
	}
	size := 256
	if v := ctx.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 2048 {
			size = n
		}
	}

	png, err := utils.QRPNG(checkinURL(base, ctx.Query("event")), size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to render QR code")
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

// Decode previews the descriptor carried by a token so the check-in page
// can pre-populate. Malformed tokens degrade to defaults, never an error.
func (e *EventController) Decode(ctx *gin.Context) {
	d := utils.DecodeEvent(ctx.Query("event"))
	_, known := e.catalog.Lookup(d.Category)
	utils.Success(ctx, gin.H{
		"title":          d.Title,
		"category":       d.Category,
		"date":           d.Date,
		"category_known": known,
		"points":         e.catalog.Points(d.Category),
		"tips":           e.catalog.Tips(d.Category),
	})
}

// checkinURL builds the link a participant scans: the token rides in a
// single query parameter alongside the page mode.
func checkinURL(base, token string) string {
	q := url.Values{}
	q.Set("mode", "checkin")
	q.Set("event", token)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
