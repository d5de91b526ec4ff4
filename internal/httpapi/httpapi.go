// Package httpapi exposes the session controller over HTTP. Step events are
// streamed to browsers with server-sent events.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/eventbus"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
)

type Options struct {
	// Runs stores finished sessions. Nil disables history.
	Runs   storage.RunStore
	Seed   int64
	Logger *logrus.Logger
}

// Handler provides the HTTP API.
type Handler struct {
	ctl      *session.Controller
	bus      *eventbus.Bus
	runs     storage.RunStore
	seed     int64
	log      *logrus.Logger
	metrics  metrics.Set
	recorder *storage.Recorder
	router   chi.Router
	wg       sync.WaitGroup
}

// New creates a handler over ctl. The controller's renderer should publish
// to bus, see NewRenderer.
func New(ctl *session.Controller, bus *eventbus.Bus, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	h := &Handler{
		ctl:      ctl,
		bus:      bus,
		runs:     opts.Runs,
		seed:     opts.Seed,
		log:      opts.Logger,
		metrics:  metrics.Default(),
		recorder: storage.NewRecorder(),
	}
	ctl.AddObserver(h.metrics)
	ctl.AddObserver(h.recorder)
	ctl.OnFinish(h.persist)
	h.router = h.buildRouter()
	return h
}

// Router returns the HTTP router.
func (h *Handler) Router() chi.Router {
	return h.router
}

// Close stops any active run and waits for background runs to return.
func (h *Handler) Close() {
	h.ctl.RequestStop()
	h.wg.Wait()
}

func (h *Handler) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Get("/array", h.handleGetArray)
			r.Post("/array", h.handleGenerate)
			r.Post("/runs", h.handleStartRun)
			r.Get("/runs", h.handleListRuns)
			r.Get("/runs/current", h.handleCurrentRun)
			r.Get("/runs/{id}", h.handleGetRun)
			r.Post("/runs/stop", h.handleStopRun)
			r.Put("/runs/speed", h.handleSetSpeed)
		})
		r.Get("/events", h.handleEvents)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

// --- Request/Response types ---

type arrayResponse struct {
	Values  []int           `json:"values"`
	Roles   []frame.RoleSet `json:"roles"`
	Running bool            `json:"running"`
	Layout  string          `json:"layout"`
	MaxSize int             `json:"max_size"`
}

type generateRequest struct {
	Size   int  `json:"size"`
	Sorted bool `json:"sorted"`
}

type startRunRequest struct {
	Algorithm string `json:"algorithm"`
	Target    *int   `json:"target,omitempty"`
	DelayMs   int    `json:"delay_ms,omitempty"`
}

type startRunResponse struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	Target    *int   `json:"target,omitempty"`
	DelayMs   int64  `json:"delay_ms"`
}

type speedRequest struct {
	DelayMs int `json:"delay_ms,omitempty"`
	Speed   int `json:"speed,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	DelayMs int64  `json:"delay_ms,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Handlers ---

func (h *Handler) handleGetArray(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.arrayState())
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.ctl.Generate(req.Size, req.Sorted)
	switch {
	case errors.Is(err, session.ErrConcurrentRun):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, array.ErrInvalidSize):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to generate array")
		h.log.WithError(err).Error("generate failed")
		return
	}
	writeJSON(w, http.StatusOK, h.arrayState())
}

func (h *Handler) handleStartRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req startRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	alg, err := algo.Parse(strings.TrimSpace(req.Algorithm))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DelayMs < 0 {
		writeError(w, http.StatusBadRequest, pacer.ErrInvalidDelay.Error())
		return
	}

	run, err := h.ctl.Begin(session.Params{
		Algorithm: alg,
		Target:    req.Target,
		Delay:     time.Duration(req.DelayMs) * time.Millisecond,
	})
	switch {
	case errors.Is(err, session.ErrConcurrentRun):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrNoValues):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to start run")
		h.log.WithError(err).Error("begin failed")
		return
	}

	// Observers only see events during Execute, and Begin holds the
	// controller, so no other run can interleave here.
	h.metrics.Reset()
	h.recorder.Reset()

	sess := run.Session()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if _, err := run.Execute(); err != nil {
			h.log.WithError(err).WithField("session", sess.ID).Error("run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, startRunResponse{
		ID:        sess.ID,
		Algorithm: alg.String(),
		Target:    sess.Params.Target,
		DelayMs:   sess.Params.Delay.Milliseconds(),
	})
}

func (h *Handler) handleStopRun(w http.ResponseWriter, r *http.Request) {
	h.ctl.RequestStop()
	writeJSON(w, http.StatusOK, statusResponse{Status: h.ctl.Status().String()})
}

func (h *Handler) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var d time.Duration
	switch {
	case req.DelayMs != 0:
		d = time.Duration(req.DelayMs) * time.Millisecond
	case req.Speed != 0:
		d = pacer.DelayForSpeed(req.Speed)
	default:
		writeError(w, http.StatusBadRequest, "delay_ms or speed is required")
		return
	}
	if err := h.ctl.SetDelay(d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: h.ctl.Status().String(), DelayMs: d.Milliseconds()})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeJSON(w, http.StatusOK, []storage.Record{})
		return
	}
	runs, err := h.runs.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		h.log.WithError(err).Error("listing runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleCurrentRun(w http.ResponseWriter, r *http.Request) {
	sess := h.ctl.Active()
	if sess == nil {
		sess = h.ctl.Last()
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "no run yet")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.runs == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	rec, err := h.runs.Load(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run")
		h.log.WithError(err).WithField("run", id).Error("loading run")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch := h.bus.Subscribe()
	defer h.bus.Unsubscribe(ch)

	// The snapshot is taken after subscribing so no change is lost between
	// the two.
	snap := h.ctl.Frame()
	writeSSE(w, &eventbus.Event{Type: "snapshot", Data: snap})
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, event)
			flusher.Flush()
		}
	}
}

func (h *Handler) persist(sess *session.RunSession) {
	if h.runs == nil {
		return
	}
	rec := storage.FromSession(sess, h.seed, h.metrics.Values())
	if _, err := h.runs.Save(rec, h.recorder.Trace()); err != nil {
		h.log.WithError(err).WithField("session", sess.ID).Error("saving run")
	}
}

func (h *Handler) arrayState() arrayResponse {
	f := h.ctl.Frame()
	layout := h.ctl.Layout()
	values, roles := f.Values, f.Roles
	if values == nil {
		values, roles = []int{}, []frame.RoleSet{}
	}
	return arrayResponse{
		Values:  values,
		Roles:   roles,
		Running: h.ctl.Running(),
		Layout:  layout.String(),
		MaxSize: layout.MaxSize(),
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("writeJSON encode error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeSSE(w http.ResponseWriter, event *eventbus.Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		logrus.WithError(err).Warn("writeSSE marshal error")
		return
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.ID, event.Type, string(data)); err != nil {
		logrus.WithError(err).Debug("writeSSE write error")
	}
}
