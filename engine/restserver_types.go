package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/thrasher-corp/barbacktester/results"
)

var (
	errNilTaskManager = errors.New("task manager not set")
	errInvalidNumber  = errors.New("invalid backtest number")
	errNoResultsDir   = fmt.Errorf("%w, no results directory", fs.ErrNotExist)
)

// Route is a named REST endpoint
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// RESTServer exposes the task manager and saved results over HTTP
type RESTServer struct {
	tasks  *TaskManager
	runs   *results.RunContext
	server *http.Server
}

type clearResponse struct {
	Cleared   []*TaskSummary `json:"cleared"`
	Remaining []*TaskSummary `json:"remaining"`
}

type errorResponse struct {
	Error string `json:"error"`
}
