package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"deerhacks-service/internal/app"
	"deerhacks-service/internal/domain"
	"deerhacks-service/internal/infra/memory"
	"deerhacks-service/internal/points"
)

func TestScheduleEndpointRespectsVisibility(t *testing.T) {
	server, _ := newTestServer(false)
	defer server.Close()

	resp := do(t, http.MethodGet, server.URL+"/schedule", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 while hidden, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, server.URL+"/admin/settings/schedule_visible", map[string]any{"value": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on visibility toggle, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/schedule", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var sched domain.Schedule
	decode(t, resp, &sched)
	if len(sched.Days) != 1 || sched.Days[0].Columns != 2 {
		t.Fatalf("expected one day with 2 columns, got %+v", sched.Days)
	}
}

func TestAdminEventCRUD(t *testing.T) {
	server, _ := newTestServer(true)
	defer server.Close()

	body := map[string]any{
		"title":     "Karaoke Night",
		"location":  "DH 2010",
		"startTime": "2025-02-16T03:00:00Z",
		"endTime":   "2025-02-16T04:00:00Z",
		"host":      "mcss",
		"type":      "activity",
	}
	resp := do(t, http.MethodPost, server.URL+"/admin/events", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created domain.Event
	decode(t, resp, &created)

	body["location"] = "DH Cafe"
	resp = do(t, http.MethodPut, server.URL+"/admin/events/"+itoa(created.ID), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/events/"+itoa(created.ID), nil)
	var fetched domain.Event
	decode(t, resp, &fetched)
	if fetched.ID != created.ID || fetched.Location != "DH Cafe" {
		t.Fatalf("unexpected event %+v", fetched)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/events", nil)
	var list eventsResponse
	decode(t, resp, &list)
	if len(list.Events) != 3 || list.Events[2].Location != "DH Cafe" {
		t.Fatalf("unexpected events %+v", list.Events)
	}

	resp = do(t, http.MethodDelete, server.URL+"/admin/events/"+itoa(created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, server.URL+"/admin/events/"+itoa(created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on get after delete, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodDelete, server.URL+"/admin/events/"+itoa(created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", resp.StatusCode)
	}

	body["host"] = "acme"
	resp = do(t, http.MethodPost, server.URL+"/admin/events", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown host, got %d", resp.StatusCode)
	}
}

func TestArchetypeEndpoints(t *testing.T) {
	server, _ := newTestServer(true)
	defer server.Close()

	resp := do(t, http.MethodPost, server.URL+"/archetype", map[string]any{"userId": "u1", "answer": "G"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var record domain.ArchetypeRecord
	decode(t, resp, &record)
	if record.Result.Archetype != domain.Neptune || !record.Result.Scored {
		t.Fatalf("expected Neptune, got %+v", record.Result)
	}

	resp = do(t, http.MethodPost, server.URL+"/archetype", map[string]any{"userId": "u2", "answer": ""})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty answer, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, server.URL+"/archetype/weighted", map[string]any{"userId": "u3", "answers": []string{"A", "D", "B", "D", "C"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for weighted, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/archetype/u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, server.URL+"/archetype/u2", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unscored user, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/archetypes", nil)
	var counts map[domain.Planet]int
	decode(t, resp, &counts)
	if len(counts) != 10 || counts[domain.Neptune] != 2 {
		t.Fatalf("unexpected distribution %v", counts)
	}
}

func TestWorkshopPointsEndpoints(t *testing.T) {
	server, _ := newTestServer(true)
	defer server.Close()

	resp := do(t, http.MethodPost, server.URL+"/admin/events", map[string]any{
		"title":       "Intro to Robotics",
		"startTime":   "2025-02-15T20:00:00Z",
		"host":        "utmRobotics",
		"type":        "workshop",
		"pointsValue": 15,
		"qrActive":    true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d", resp.StatusCode)
	}
	var workshop domain.Event
	decode(t, resp, &workshop)
	id := itoa(workshop.ID)

	resp = do(t, http.MethodGet, server.URL+"/admin/events/"+id+"/qr-token", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for qr token, got %d", resp.StatusCode)
	}
	var tok tokenResponse
	decode(t, resp, &tok)
	if tok.Token == "" || tok.ExpiresIn <= 0 || tok.ExpiresIn > 30 {
		t.Fatalf("unexpected token %+v", tok)
	}

	claim := map[string]any{"userId": "u1", "eventId": workshop.ID, "token": tok.Token}
	resp = do(t, http.MethodPost, server.URL+"/workshop/claim", claim)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for claim, got %d", resp.StatusCode)
	}
	var result domain.ClaimResult
	decode(t, resp, &result)
	if result.PointsAwarded != 15 || result.TotalPoints != 15 {
		t.Fatalf("unexpected claim %+v", result)
	}

	resp = do(t, http.MethodPost, server.URL+"/workshop/claim", claim)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second claim, got %d", resp.StatusCode)
	}
	claim["token"] = "1.2.forged"
	resp = do(t, http.MethodPost, server.URL+"/workshop/claim", claim)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for forged token, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, server.URL+"/admin/points/adjust", map[string]any{
		"userId": "u1", "delta": -5, "adjustmentType": "prize_redemption", "reason": "sticker pack",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for adjust, got %d", resp.StatusCode)
	}
	var adjusted adjustResponse
	decode(t, resp, &adjusted)
	if adjusted.NewTotal != 10 {
		t.Fatalf("expected new total 10, got %d", adjusted.NewTotal)
	}
	resp = do(t, http.MethodPost, server.URL+"/admin/points/adjust", map[string]any{
		"userId": "u1", "delta": 5, "adjustmentType": "prize_redemption", "reason": "refund",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for positive prize redemption, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/points/u1", nil)
	var pts domain.UserPoints
	decode(t, resp, &pts)
	if pts.TotalPoints != 10 || len(pts.Redemptions) != 1 || len(pts.Adjustments) != 1 {
		t.Fatalf("unexpected points %+v", pts)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/events/"+id+"/redemptions", nil)
	var recent redemptionsResponse
	decode(t, resp, &recent)
	if len(recent.Redemptions) != 1 || recent.Redemptions[0].UserID != "u1" {
		t.Fatalf("unexpected redemptions %+v", recent)
	}

	// Closing the QR stops new claims.
	resp = do(t, http.MethodPut, server.URL+"/admin/events/"+id, map[string]any{
		"title":       "Intro to Robotics",
		"startTime":   "2025-02-15T20:00:00Z",
		"host":        "utmRobotics",
		"type":        "workshop",
		"pointsValue": 15,
		"qrActive":    false,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, server.URL+"/admin/events/"+id+"/qr-token", nil)
	decode(t, resp, &tok)
	resp = do(t, http.MethodPost, server.URL+"/workshop/claim", map[string]any{"userId": "u2", "eventId": workshop.ID, "token": tok.Token})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 while qr inactive, got %d", resp.StatusCode)
	}
}

func newTestServer(visible bool) (*httptest.Server, *app.ScheduleService) {
	store := memory.NewEventStore(sampleEvents()...)
	schedule := app.NewScheduleService(store, memory.NewEventRepository(store, time.Minute), memory.NewSettingsStore(), app.ScheduleOptions{
		Location:       time.UTC,
		DefaultVisible: visible,
	})
	archetypes := app.NewArchetypeService(memory.NewResultStore(), nil)
	signer, err := points.NewSigner([]byte("test-secret"), 0)
	if err != nil {
		panic(err)
	}
	pointsSvc := app.NewPointsService(store, memory.NewPointsStore(), signer, app.PointsOptions{})

	mux := http.NewServeMux()
	NewAPI(schedule, archetypes, pointsSvc, nil).Register(mux)
	mux.HandleFunc("GET /ws/schedule", NewWSHandler(schedule, nil).ServeSchedule)
	return httptest.NewServer(mux), schedule
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func sampleEvents() []domain.Event {
	at := func(h, m int) time.Time { return time.Date(2025, time.February, 15, h, m, 0, 0, time.UTC) }
	end1, end2 := at(10, 0), at(10, 30)
	return []domain.Event{
		{ID: 1, Title: "NAND to Tetris", StartTime: at(9, 0), EndTime: &end1, Host: "mcss", Type: domain.EventWorkshop},
		{ID: 2, Title: "Intro to OpenCV", StartTime: at(9, 30), EndTime: &end2, Host: "gdsc", Type: domain.EventWorkshop},
	}
}
