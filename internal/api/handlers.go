package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Flyrell/evdash/internal/analytics"
	"github.com/Flyrell/evdash/internal/export"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/bytedance/sonic"
)

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Message: msg})
}

func writeNotFound(w http.ResponseWriter) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

// writeError maps store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, record.ErrInvalid):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		logging.FromContext(r.Context()).Error("request failed", logging.F("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads the JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Request body too large")
		return false
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// pathID parses {id}. Non-numeric IDs cannot exist, so they answer 404.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeNotFound(w)
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- projects ---

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(projects))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p record.Project
	if !decode(w, r, &p) {
		return
	}
	created, err := s.store.CreateProject(p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch record.ProjectPatch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateProject(id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.DeleteProject(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- teams ---

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(teams))
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var t record.Team
	if !decode(w, r, &t) {
		return
	}
	created, err := s.store.CreateTeam(t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch record.TeamPatch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateTeam(id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.DeleteTeam(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- milestones ---

func (s *Server) handleListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := s.store.ListMilestones()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(milestones))
}

func (s *Server) handleCreateMilestone(w http.ResponseWriter, r *http.Request) {
	var m record.Milestone
	if !decode(w, r, &m) {
		return
	}
	created, err := s.store.CreateMilestone(m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch record.MilestonePatch
	if !decode(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateMilestone(id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.DeleteMilestone(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- views ---

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects()
	if err != nil {
		writeError(w, r, err)
		return
	}
	g := timeline.ParseGranularity(r.URL.Query().Get("granularity"))
	vm := timeline.Build(analytics.TimelineRecords(projects), g, s.now())
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export.BuildReport(ds, s.now()))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
