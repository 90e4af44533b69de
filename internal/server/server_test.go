package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmccallister93/take-action/internal/clock"
	"github.com/jmccallister93/take-action/internal/engine"
	"github.com/jmccallister93/take-action/internal/store"
)

func testServer(t *testing.T) (*Server, *clock.Manual) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clk := clock.NewManual(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	eng := engine.New(db, clk)
	eng.Load()
	return New(db, eng, "test-version"), clk
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	w := do(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestCategoryAndActivityFlow(t *testing.T) {
	srv, _ := testServer(t)

	w := do(t, srv, "POST", "/api/categories", `{
		"name": "Fitness",
		"stats": [{"name": "Strength", "value": 10}]
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body.String())
	}
	var created map[string]string
	decode(t, w, &created)
	id := created["id"]
	if id == "" {
		t.Fatal("no id returned")
	}

	w = do(t, srv, "POST", "/api/activities", `{
		"description": "lifting",
		"categoryId": "`+id+`",
		"targetStats": ["Strength"],
		"points": 3
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("log activity: %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, "GET", "/api/sheet", "")
	var sheet struct {
		Categories []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
			Stats []struct {
				Name  string `json:"name"`
				Value int    `json:"value"`
			} `json:"stats"`
		} `json:"categories"`
	}
	decode(t, w, &sheet)
	if len(sheet.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(sheet.Categories))
	}
	if sheet.Categories[0].Score != 13 || sheet.Categories[0].Stats[0].Value != 13 {
		t.Errorf("sheet = %+v, want score 13 / Strength 13", sheet.Categories[0])
	}

	w = do(t, srv, "GET", "/api/log", "")
	var logBody struct {
		Entries []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"entries"`
	}
	decode(t, w, &logBody)
	if len(logBody.Entries) != 1 || logBody.Entries[0].Description != "lifting" {
		t.Fatalf("log = %+v", logBody)
	}

	// Edit the activity's points; the stat follows.
	w = do(t, srv, "PATCH", "/api/activities/"+logBody.Entries[0].ID, `{"points": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit activity: %d %s", w.Code, w.Body.String())
	}
	w = do(t, srv, "GET", "/api/sheet", "")
	decode(t, w, &sheet)
	if sheet.Categories[0].Stats[0].Value != 15 {
		t.Errorf("Strength = %d, want 15 after edit", sheet.Categories[0].Stats[0].Value)
	}
}

func TestActivityValidation(t *testing.T) {
	srv, _ := testServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing description", `{"categoryId": "cat-1", "points": 1}`},
		{"missing category", `{"description": "x", "points": 1}`},
		{"invalid json", `{`},
	}
	for _, tc := range cases {
		w := do(t, srv, "POST", "/api/activities", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, w.Code)
		}
	}

	if w := do(t, srv, "PATCH", "/api/activities/nope", `{"points": 2}`); w.Code != http.StatusNotFound {
		t.Errorf("edit absent entry: status = %d, want 404", w.Code)
	}
}

func TestDecayFlow(t *testing.T) {
	srv, clk := testServer(t)

	w := do(t, srv, "POST", "/api/categories", `{
		"name": "Fitness",
		"stats": [{"name": "Strength", "value": 10}]
	}`)
	var created map[string]string
	decode(t, w, &created)
	id := created["id"]

	w = do(t, srv, "POST", "/api/decay", `{
		"categoryId": "`+id+`",
		"statName": "Strength",
		"points": 2,
		"interval": "24h",
		"enabled": true
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add setting: %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, "GET", "/api/decay/"+id+"/Strength/countdown", "")
	var cd struct {
		Days    int  `json:"days"`
		Hours   int  `json:"hours"`
		Minutes int  `json:"minutes"`
		Due     bool `json:"due"`
	}
	decode(t, w, &cd)
	// Nothing has elapsed yet: the full interval remains.
	if cd.Due || cd.Days != 1 || cd.Hours != 0 || cd.Minutes != 0 {
		t.Errorf("countdown = %+v, want 1d 0h 0m", cd)
	}

	clk.Advance(3*24*time.Hour + time.Hour)
	w = do(t, srv, "POST", "/api/decay/evaluate", "")
	var evalBody map[string]int
	decode(t, w, &evalBody)
	if evalBody["removed"] != 6 {
		t.Errorf("removed = %d, want 6 (3 periods of 2)", evalBody["removed"])
	}

	w = do(t, srv, "GET", "/api/sheet", "")
	var sheet struct {
		Categories []struct {
			Score int `json:"score"`
		} `json:"categories"`
	}
	decode(t, w, &sheet)
	if sheet.Categories[0].Score != 4 {
		t.Errorf("score = %d, want 4 after decay", sheet.Categories[0].Score)
	}

	// Boundary validation: the core never sees non-positive points/intervals.
	for _, body := range []string{
		`{"categoryId": "x", "statName": "y", "points": 0, "interval": "24h"}`,
		`{"categoryId": "x", "statName": "y", "points": 2, "interval": "-24h"}`,
		`{"categoryId": "x", "statName": "y", "points": 2, "interval": "soon"}`,
	} {
		if w := do(t, srv, "POST", "/api/decay", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}

	if w := do(t, srv, "PATCH", "/api/decay/"+id+"/Nope", `{"points": 1}`); w.Code != http.StatusNotFound {
		t.Errorf("update absent setting: status = %d, want 404", w.Code)
	}

	w = do(t, srv, "DELETE", "/api/decay/"+id+"/Strength", "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove setting: %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/decay/"+id+"/Strength/countdown", ""); w.Code != http.StatusNotFound {
		t.Errorf("countdown after removal: status = %d, want 404", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	w := do(t, srv, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "takeaction_") {
		t.Error("expected takeaction_ metrics in exposition")
	}
}
