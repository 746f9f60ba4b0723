package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/eventholder"
	"github.com/thrasher-corp/barbacktester/eventhandlers/exchange"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio"
	"github.com/thrasher-corp/barbacktester/eventhandlers/statistics"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies"
	"github.com/thrasher-corp/barbacktester/results"
)

var (
	errNilConfig           = errors.New("unable to setup backtester with nil config")
	errNotSetup            = errors.New("backtesting run not setup")
	errNoDataLoaded        = errors.New("no bars were processed")
	errUnhandledEventType  = errors.New("unhandled event type")
	errUniverseUnsupported = errors.New("data handler cannot change its symbol universe")
)

// runLogs is held by a run for as long as its log file is attached
var runLogs sync.Mutex

// BackTest is the main holder of all backtesting functionality
type BackTest struct {
	m              sync.Mutex
	wg             sync.WaitGroup
	MetaData       TaskMetaData
	shutdown       chan struct{}
	DataHolder     data.Handler
	Strategy       strategies.Handler
	Portfolio      portfolio.Handler
	Exchange       exchange.ExecutionHandler
	EventQueue     eventholder.EventHolder
	RunContext     *results.RunContext
	periodsPerYear float64
	closers        []func() error
	results        *results.Table
	statistic      *statistics.Statistic
	runErr         error
}

// TaskMetaData contains details about a backtesting task
type TaskMetaData struct {
	ID             uuid.UUID `json:"id"`
	Strategy       string    `json:"strategy"`
	Nickname       string    `json:"nickname,omitempty"`
	BacktestNumber int64     `json:"backtest-number,omitempty"`
	DateLoaded     time.Time `json:"date-loaded"`
	DateStarted    time.Time `json:"date-started"`
	DateEnded      time.Time `json:"date-ended"`
	Closed         bool      `json:"closed"`
}

// TaskSummary holds details of a BackTest
type TaskSummary struct {
	MetaData  TaskMetaData          `json:"metadata"`
	Statistic *statistics.Statistic `json:"statistic,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// TaskManager contains all strategy tasks
type TaskManager struct {
	m     sync.Mutex
	tasks []*BackTest
}
