// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AccelByte/extend-daily-progression/pkg/calendar"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/AccelByte/extend-daily-progression/pkg/mission"
	"github.com/AccelByte/extend-daily-progression/pkg/profile"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

// CleanupFunc runs the guest cleanup for today.
type CleanupFunc func(ctx context.Context) (ran bool, removed int, err error)

// Dependencies are the components the HTTP routes call into.
type Dependencies struct {
	Controller *mission.Controller
	Repo       *profile.Repository
	Clock      calendar.Clock
	Store      kvs.Store
	Cleanup    CleanupFunc
}

type handlers struct {
	deps     Dependencies
	sessions *Sessions
}

// NewRouter wires every route.
func NewRouter(deps Dependencies, registry *prometheus.Registry) *mux.Router {
	h := &handlers{
		deps:     deps,
		sessions: NewSessions(deps.Repo, deps.Clock),
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/admin/guest-cleanup", h.guestCleanup).Methods(http.MethodPost)

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/guests", h.createGuest).Methods(http.MethodPost)
	api.HandleFunc("/profiles/{user}", h.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/mission/{user}", h.viewMission).Methods(http.MethodGet)
	api.HandleFunc("/mission/{user}", h.handleMission).Methods(http.MethodPost)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if p, ok := h.deps.Store.(kvs.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			// file fallback keeps serving, so report but stay ready
			status["status"] = "degraded"
			status["store"] = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *handlers) guestCleanup(w http.ResponseWriter, r *http.Request) {
	if h.deps.Cleanup == nil {
		writeError(w, http.StatusNotImplemented, "guest cleanup is not configured")
		return
	}
	ran, removed, err := h.deps.Cleanup(r.Context())
	if err != nil {
		logrus.Errorf("guest cleanup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "guest cleanup failed")
		return
	}
	dropped := 0
	if ran {
		dropped = h.sessions.DropGuests()
	}
	writeJSON(w, http.StatusOK, map[string]any{"ran": ran, "removed": removed, "sessionsDropped": dropped})
}

func (h *handlers) createGuest(w http.ResponseWriter, r *http.Request) {
	id := profile.NewGuestID()
	if err := h.deps.Repo.RecordGuestSignup(r.Context(), h.deps.Clock.Today()); err != nil {
		logrus.Warnf("failed to record guest signup: %v", err)
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["user"]
	if profile.IsGuest(id) {
		writeError(w, http.StatusNotFound, "guest profiles are not stored")
		return
	}
	p, ok := h.deps.Repo.Get(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) viewMission(w http.ResponseWriter, r *http.Request) {
	h.serveMission(w, r, mission.Input{})
}

func (h *handlers) handleMission(w http.ResponseWriter, r *http.Request) {
	var in mission.Input
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid mission input")
			return
		}
	}
	h.serveMission(w, r, in)
}

func (h *handlers) serveMission(w http.ResponseWriter, r *http.Request, in mission.Input) {
	id := mux.Vars(r)["user"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	entry := h.sessions.acquire(id, r.URL.Query().Get("ageGroup"))
	defer entry.mu.Unlock()

	view := h.deps.Controller.Handle(r.Context(), entry.session, in)

	if entry.saver != nil && !entry.session.Degraded() {
		now := h.deps.Clock.Now()
		mode := string(view.Mode)
		entry.saver.Stage(func(p *profile.UserProfile) {
			p.LogActivity(now, "mission", mode)
		})
		if _, err := entry.saver.Flush(r.Context(), false); err != nil && !errors.Is(err, context.Canceled) {
			logrus.Warnf("failed to save activity for %s: %v", id, err)
		}
	}

	writeJSON(w, http.StatusOK, view)
}
