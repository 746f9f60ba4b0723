package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
)

// NewRESTServer returns a server for tm listening on listenAddress. rc serves
// saved results and may be nil
func NewRESTServer(listenAddress string, tm *TaskManager, rc *results.RunContext) (*RESTServer, error) {
	if tm == nil {
		return nil, errNilTaskManager
	}
	s := &RESTServer{
		tasks: tm,
		runs:  rc,
	}
	s.server = &http.Server{
		Addr:              listenAddress,
		Handler:           s.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// RESTLogger logs the requests internally
func RESTLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inner.ServeHTTP(w, r)
		log.Debugf(log.RESTSys,
			"%s\t%s\t%s\t%s",
			r.Method,
			r.RequestURI,
			name,
			time.Since(start))
	})
}

func (s *RESTServer) newRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	routes := []Route{
		{"ListTasks", http.MethodGet, "/tasks", s.listTasks},
		{"GetTask", http.MethodGet, "/tasks/{id}", s.getTask},
		{"StartTask", http.MethodPost, "/tasks/{id}/start", s.startTask},
		{"StopTask", http.MethodPost, "/tasks/{id}/stop", s.stopTask},
		{"ClearTask", http.MethodDelete, "/tasks/{id}", s.clearTask},
		{"ClearAllTasks", http.MethodDelete, "/tasks", s.clearAllTasks},
		{"GetLatestResults", http.MethodGet, "/results/latest", s.getLatestResults},
		{"GetResults", http.MethodGet, "/results/{number}", s.getResults},
	}
	for _, route := range routes {
		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(RESTLogger(route.HandlerFunc, route.Name))
	}
	return router
}

// Handler returns the router serving the REST endpoints
func (s *RESTServer) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called
func (s *RESTServer) ListenAndServe() error {
	log.Infof(log.RESTSys, "REST server listening on http://%s", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *RESTServer) listTasks(w http.ResponseWriter, _ *http.Request) {
	tasks, err := s.tasks.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *RESTServer) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sum, err := s.tasks.GetSummary(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *RESTServer) startTask(w http.ResponseWriter, r *http.Request) {
	s.taskAction(w, r, s.tasks.StartTask)
}

func (s *RESTServer) stopTask(w http.ResponseWriter, r *http.Request) {
	s.taskAction(w, r, s.tasks.StopTask)
}

func (s *RESTServer) clearTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err = s.tasks.ClearTask(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *RESTServer) clearAllTasks(w http.ResponseWriter, _ *http.Request) {
	cleared, remaining, err := s.tasks.ClearAllTasks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Cleared: cleared, Remaining: remaining})
}

func (s *RESTServer) taskAction(w http.ResponseWriter, r *http.Request, action func(uuid.UUID) error) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err = action(id); err != nil {
		writeError(w, err)
		return
	}
	sum, err := s.tasks.GetSummary(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *RESTServer) getLatestResults(w http.ResponseWriter, _ *http.Request) {
	if s.runs == nil {
		writeError(w, errNoResultsDir)
		return
	}
	t, err := s.runs.LoadLatest()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *RESTServer) getResults(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, errNoResultsDir)
		return
	}
	number, err := strconv.ParseInt(mux.Vars(r)["number"], 10, 64)
	if err != nil || number < 1 {
		writeError(w, fmt.Errorf("%w '%v'", errInvalidNumber, mux.Vars(r)["number"]))
		return
	}
	t, err := s.runs.Load(number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func taskID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", errTaskNotFound, err)
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidNumber):
		return http.StatusBadRequest
	case errors.Is(err, errTaskNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, errAlreadyRan),
		errors.Is(err, errTaskIsRunning),
		errors.Is(err, errTaskHasNotRan),
		errors.Is(err, errCannotClear):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf(log.RESTSys, "unable to write response: %v", err)
	}
}
