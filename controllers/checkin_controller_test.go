package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/config"
	"github.com/ruei-yu/activity-checkin-points/ledger"
	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if utils.Sugar == nil {
		if err := utils.InitLogger(config.AppConfig{LogLevel: "error"}); err != nil {
			t.Fatalf("InitLogger: %v", err)
		}
	}

	store, err := ledger.NewCSVStore(filepath.Join(t.TempDir(), "checkins.csv"))
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	catalog, err := points.NewCatalog([]models.CategoryDef{
		{Name: "志工", Points: 1, Tips: "參與志工活動"},
		{Name: "中華文化", Points: 2},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	l := ledger.New(store)
	checkin := NewCheckinController(l, catalog)
	event := NewEventController(catalog)
	board := NewLeaderboardController(l)

	r := gin.New()
	r.POST("/checkins", checkin.Checkin)
	r.GET("/checkins", checkin.List)
	r.GET("/participants/:name", checkin.Participant)
	r.POST("/events/link", event.GenerateLink)
	r.GET("/events/decode", event.Decode)
	r.GET("/leaderboard", board.Leaderboard)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope.Data
}

func checkinBody(t *testing.T, d models.EventDescriptor, names, note string) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"event": utils.EncodeEvent(d),
		"names": names,
		"note":  note,
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return string(b)
}

func TestCheckinEndpoint(t *testing.T) {
	r := setupRouter(t)
	d := models.EventDescriptor{Title: "迎新晚會", Category: "志工", Date: "2025-09-01"}

	w, data := doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d, "Alice(帶朋友), Bob、Carol", "front desk"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := data["accepted"].([]any); len(got) != 3 {
		t.Errorf("accepted = %v, want 3 names", got)
	}
	if got := data["duplicates"].([]any); len(got) != 0 {
		t.Errorf("duplicates = %v, want none", got)
	}
	if data["batch_id"] == "" {
		t.Error("batch_id missing")
	}

	// Same batch again: all duplicates, nothing appended.
	w, data = doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d, "Alice, Bob, Carol", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := data["duplicates"].([]any); len(got) != 3 {
		t.Errorf("duplicates = %v, want 3", got)
	}

	_, data = doJSON(t, r, http.MethodGet, "/checkins", "")
	if got := data["total"].(float64); got != 3 {
		t.Errorf("ledger total = %v, want 3", got)
	}
}

func TestCheckinEndpointUnknownCategory(t *testing.T) {
	r := setupRouter(t)
	d := models.EventDescriptor{Title: "x", Category: "骑马", Date: "2025-09-01"}

	w, _ := doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d, "Alice", ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	_, data := doJSON(t, r, http.MethodGet, "/checkins", "")
	if got := data["total"].(float64); got != 0 {
		t.Errorf("nothing should be written, total = %v", got)
	}
}

func TestCheckinEndpointNoNames(t *testing.T) {
	r := setupRouter(t)
	d := models.EventDescriptor{Title: "x", Category: "志工"}
	w, _ := doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d, "（只有註記）", ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestParticipantEndpoint(t *testing.T) {
	r := setupRouter(t)
	d1 := models.EventDescriptor{Title: "週會", Category: "中華文化", Date: "2025-03-01"}
	d2 := models.EventDescriptor{Title: "週會", Category: "中華文化", Date: "2025-03-08"}
	doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d1, "Alice", ""))
	doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d2, "Alice", ""))

	w, data := doJSON(t, r, http.MethodGet, "/participants/Alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := data["total_points"].(float64); got != 4 {
		t.Errorf("total_points = %v, want 4", got)
	}
	// 4 points: 3-point reward unlocked, 6 is next (gap 2) under defaults.
	if got := data["unlocked"].([]any); len(got) != 1 {
		t.Errorf("unlocked = %v, want 1 reward", got)
	}
	next := data["next"].(map[string]any)
	if next["max_reached"].(bool) || next["gap"].(float64) != 2 {
		t.Errorf("next = %v, want gap 2", next)
	}
}

func TestGenerateAndDecodeLink(t *testing.T) {
	r := setupRouter(t)

	w, data := doJSON(t, r, http.MethodPost, "/events/link",
		`{"url":"https://club.example.com","title":"迎新晚會","category":"志工","date":"2025-09-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	token := data["event"].(string)
	if token == "" {
		t.Fatal("token missing")
	}
	if u := data["checkin_url"].(string); !strings.Contains(u, "mode=checkin") {
		t.Errorf("checkin_url = %q", u)
	}

	w, data = doJSON(t, r, http.MethodGet, "/events/decode?event="+token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("decode status = %d", w.Code)
	}
	if data["title"] != "迎新晚會" || data["category"] != "志工" || data["date"] != "2025-09-01" {
		t.Errorf("decoded = %v", data)
	}
	if data["category_known"] != true || data["points"].(float64) != 1 {
		t.Errorf("category metadata = %v", data)
	}
}

func TestDecodeGarbageToken(t *testing.T) {
	r := setupRouter(t)
	w, data := doJSON(t, r, http.MethodGet, "/events/decode?event=not-a-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("garbage token must not fail the endpoint, status = %d", w.Code)
	}
	if data["title"] != models.DefaultEventTitle {
		t.Errorf("title = %v, want sentinel", data["title"])
	}
	if data["category_known"] != false {
		t.Errorf("category_known = %v, want false", data["category_known"])
	}
}

func TestGenerateLinkUnknownCategory(t *testing.T) {
	r := setupRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/events/link", `{"category":"骑马"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	r := setupRouter(t)
	d := models.EventDescriptor{Title: "週會", Category: "中華文化", Date: "2025-03-01"}
	doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, d, "Bob", ""))
	doJSON(t, r, http.MethodPost, "/checkins", checkinBody(t, models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}, "Alice", ""))

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var envelope struct {
		Data []struct {
			Name  string `json:"participant_name"`
			Total int    `json:"total_points"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Name != "Bob" || envelope.Data[0].Total != 2 {
		t.Errorf("leaderboard = %+v, want Bob(2) first", envelope.Data)
	}
}
