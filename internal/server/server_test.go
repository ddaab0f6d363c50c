// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/AccelByte/extend-daily-progression/pkg/mission"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/AccelByte/extend-daily-progression/pkg/reward"
	"github.com/AccelByte/extend-daily-progression/pkg/reward/builtin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func setupTestRouter(t *testing.T) (http.Handler, *profile.Repository) {
	t.Helper()
	builtin.RegisterGrants()

	config := reward.DefaultConfig()
	registry := reward.NewRegistry()
	if err := reward.RegisterGrants(registry, config.Rewards); err != nil {
		t.Fatalf("RegisterGrants() error = %v", err)
	}

	store := kvs.NewMemoryStore()
	clock := &calendar.FixedClock{Day: calendar.MustParseDay("2024-03-10")}
	repo := profile.NewRepository(store, clock)
	controller := mission.NewController(reward.NewExecutor(registry, config), content.NewBank(nil), events.NopSink{})

	deps := Dependencies{
		Controller: controller,
		Repo:       repo,
		Clock:      clock,
		Store:      store,
		Cleanup: func(ctx context.Context) (bool, int, error) {
			return repo.RunDailyGuestCleanup(ctx, clock.Today())
		},
	}
	return NewRouter(deps, NewMetricsRegistry()), repo
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h, _ := setupTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestRouter_MissionFlow(t *testing.T) {
	h, repo := setupTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/v1/mission/kid-1?ageGroup=10-12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d", rec.Code)
	}
	var view mission.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Mode != mission.ModeDaily || view.VisiblePrompt == "" || view.Total != mission.DailySteps {
		t.Errorf("view = %+v", view)
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/mission/kid-1", `{"selectedAnswer":"not an option"}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Feedback == "" {
		t.Errorf("wrong answer should give feedback: %+v", view)
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/mission/kid-1", `{"selectedAnswer":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed input status = %d", rec.Code)
	}

	p, ok := repo.Get(context.Background(), "kid-1")
	if !ok || len(p.Activity) == 0 {
		t.Errorf("activity should be saved for a logged-in learner: %+v", p.Activity)
	}
}

func TestRouter_GuestsAndProfiles(t *testing.T) {
	h, repo := setupTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/v1/guests", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create guest status = %d", rec.Code)
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if !profile.IsGuest(created["id"]) {
		t.Errorf("guest id = %q", created["id"])
	}
	if repo.GuestSignups(context.Background())["2024-03-10"] != 1 {
		t.Errorf("signups = %v", repo.GuestSignups(context.Background()))
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/mission/"+created["id"], "")
	if rec.Code != http.StatusOK {
		t.Errorf("guest mission status = %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/v1/profiles/"+created["id"], "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("guest profile status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/profiles/nobody", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d", rec.Code)
	}
	if _, _, err := repo.Create(context.Background(), "kid-2"); err != nil {
		t.Fatal(err)
	}
	rec = doRequest(t, h, http.MethodGet, "/v1/profiles/kid-2", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"kid-2"`) {
		t.Errorf("profile = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GuestCleanup(t *testing.T) {
	h, _ := setupTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/admin/guest-cleanup", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ran":true`) {
		t.Errorf("first cleanup = %d %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, h, http.MethodPost, "/admin/guest-cleanup", "")
	if !strings.Contains(rec.Body.String(), `"ran":false`) {
		t.Errorf("second cleanup on the same day = %s", rec.Body.String())
	}
	rec = doRequest(t, h, http.MethodGet, "/admin/guest-cleanup", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET cleanup status = %d", rec.Code)
	}
}

func TestSessions_DropGuests(t *testing.T) {
	clock := &calendar.FixedClock{Day: calendar.MustParseDay("2024-03-10")}
	sessions := NewSessions(profile.NewRepository(kvs.NewMemoryStore(), clock), clock)

	for _, id := range []string{"kid-1", "Guest-aaaa", "Guest-bbbb"} {
		entry := sessions.acquire(id, "")
		entry.mu.Unlock()
	}
	if n := sessions.DropGuests(); n != 2 {
		t.Errorf("DropGuests() = %d", n)
	}
	if sessions.Len() != 1 {
		t.Errorf("Len() = %d", sessions.Len())
	}
}

func TestSetupTelemetry(t *testing.T) {
	shutdown, err := SetupTelemetry(context.Background(), "DailyProgressionTest", "test", "")
	if err != nil {
		t.Fatalf("SetupTelemetry() error = %v", err)
	}
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	fields := otel.GetTextMapPropagator().Fields()
	for _, want := range []string{"traceparent", "x-b3-traceid"} {
		found := false
		for _, f := range fields {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("propagator fields %v missing %s", fields, want)
		}
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}
