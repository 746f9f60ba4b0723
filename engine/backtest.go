package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/eventholder"
	"github.com/thrasher-corp/barbacktester/eventhandlers/statistics"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
)

// New returns a new BackTest instance
func New() *BackTest {
	return &BackTest{
		shutdown:       make(chan struct{}),
		EventQueue:     &eventholder.Holder{},
		periodsPerYear: statistics.DefaultPeriods,
	}
}

func (bt *BackTest) validate() error {
	switch {
	case bt.DataHolder == nil:
		return fmt.Errorf("%w data handler", common.ErrNilPointer)
	case bt.Strategy == nil:
		return fmt.Errorf("%w strategy", common.ErrNilPointer)
	case bt.Portfolio == nil:
		return fmt.Errorf("%w portfolio", common.ErrNilPointer)
	case bt.Exchange == nil:
		return fmt.Errorf("%w exchange", common.ErrNilPointer)
	case bt.EventQueue == nil:
		return fmt.Errorf("%w event queue", common.ErrNilPointer)
	}
	return nil
}

// Run will iterate over loaded data events
// save them and then handle the event based on its type
func (bt *BackTest) Run() error {
	if bt == nil {
		return fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	if err := bt.validate(); err != nil {
		return err
	}
	log.Infoln(common.SubLoggers[common.Backtester], "running backtester against pre-defined data")
	var steps int64
	var last *market.Market
	for {
		ev, ok := bt.EventQueue.NextEvent()
		if ok {
			if err := bt.handleEvent(ev); err != nil {
				return fmt.Errorf("offset %d: %w", ev.GetOffset(), err)
			}
			continue
		}
		if last != nil {
			if err := bt.updateUniverse(last); err != nil {
				return fmt.Errorf("offset %d: %w", last.GetOffset(), err)
			}
			last = nil
		}
		select {
		case <-bt.shutdown:
			log.Infof(common.SubLoggers[common.Backtester], "backtest stopped after %d bars", steps)
			return nil
		default:
		}
		m, err := bt.DataHolder.UpdateBars()
		if err != nil {
			return err
		}
		if m == nil {
			break
		}
		steps++
		last = m
		bt.EventQueue.AppendEvent(m)
	}
	if steps == 0 {
		return errNoDataLoaded
	}
	log.Debugf(common.SubLoggers[common.Backtester], "processed %d bars", steps)
	return nil
}

// updateUniverse lets the strategy resize the symbol universe between bars.
// New symbols join the data source at their next bar and the portfolio holds
// exactly the new universe before that bar is revealed
func (bt *BackTest) updateUniverse(m *market.Market) error {
	us, ok := bt.Strategy.(strategies.UniverseSelector)
	if !ok {
		return nil
	}
	symbols, err := us.SelectSymbols(m, bt.DataHolder)
	if err != nil {
		return fmt.Errorf("strategy %v: %w", bt.Strategy.Name(), err)
	}
	if len(symbols) == 0 {
		return nil
	}
	su, ok := bt.DataHolder.(data.SymbolUpdater)
	if !ok {
		return fmt.Errorf("%w, %T", errUniverseUnsupported, bt.DataHolder)
	}
	if err = su.UpdateSymbols(context.Background(), symbols, m.GetTime()); err != nil {
		return err
	}
	return bt.Portfolio.SetSymbols(bt.DataHolder.Symbols())
}

// handleEvent is the main processor of data for the backtester
// after data has been loaded and Run has appended a market event to the queue
func (bt *BackTest) handleEvent(ev common.Event) error {
	switch e := ev.(type) {
	case *market.Market:
		signals, err := bt.Strategy.CalculateSignals(e, bt.DataHolder)
		if err != nil {
			return fmt.Errorf("strategy %v: %w", bt.Strategy.Name(), err)
		}
		for i := range signals {
			if signals[i] != nil {
				bt.EventQueue.AppendEvent(signals[i])
			}
		}
		return bt.Portfolio.UpdateTimeIndex(e, bt.DataHolder)
	case *signal.Signal:
		o, err := bt.Portfolio.UpdateSignal(e)
		if err != nil {
			return err
		}
		if o != nil {
			bt.EventQueue.AppendEvent(o)
		}
	case *order.Order:
		f, err := bt.Exchange.ExecuteOrder(e, bt.DataHolder)
		if err != nil {
			return err
		}
		if f != nil {
			bt.EventQueue.AppendEvent(f)
		}
	case *fill.Fill:
		return bt.Portfolio.UpdateFill(e)
	default:
		return fmt.Errorf("%w %T", errUnhandledEventType, ev)
	}
	return nil
}

// ExecuteStrategy runs the task. When waitForCompletion is false the
// run continues on its own goroutine
func (bt *BackTest) ExecuteStrategy(waitForCompletion bool) error {
	if bt == nil {
		return fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	bt.m.Lock()
	switch {
	case bt.MetaData.DateLoaded.IsZero():
		bt.m.Unlock()
		return errNotSetup
	case bt.MetaData.Closed:
		bt.m.Unlock()
		return fmt.Errorf("%w %v", errAlreadyRan, bt.MetaData.ID)
	case !bt.MetaData.DateStarted.IsZero():
		bt.m.Unlock()
		return fmt.Errorf("%w %v", errTaskIsRunning, bt.MetaData.ID)
	}
	bt.MetaData.DateStarted = time.Now()
	bt.wg.Add(1)
	bt.m.Unlock()

	if waitForCompletion {
		return bt.execute()
	}
	go func() {
		if err := bt.execute(); err != nil {
			log.Errorln(common.SubLoggers[common.Backtester], err)
		}
	}()
	return nil
}

// execute runs the backtest and saves its results. Runs with a log file are
// serialised as the file is attached to the shared sub-loggers
func (bt *BackTest) execute() (err error) {
	defer bt.wg.Done()
	defer func() {
		err = common.AppendError(err, bt.closeResources())
		bt.finish(err)
	}()
	var number int64
	if bt.RunContext != nil {
		runLogs.Lock()
		defer runLogs.Unlock()
		number, err = bt.RunContext.Next()
		if err != nil {
			return err
		}
		bt.m.Lock()
		bt.MetaData.BacktestNumber = number
		bt.m.Unlock()
		var f *os.File
		f, err = bt.RunContext.LogWriter(number)
		if err != nil {
			return err
		}
		var detach func() error
		detach, err = attachLogFile(f)
		if err != nil {
			return err
		}
		defer func() {
			err = common.AppendError(err, detach())
		}()
	}
	log.Infof(common.SubLoggers[common.Backtester], "starting backtest %d with strategy %v", number, bt.Strategy.Name())
	if err = bt.Run(); err != nil {
		return err
	}
	return bt.processResults(number)
}

func (bt *BackTest) processResults(number int64) error {
	t, err := bt.Portfolio.GenerateResults()
	if err != nil {
		return err
	}
	if bt.RunContext != nil {
		if err = bt.RunContext.Save(number, t); err != nil {
			return err
		}
	}
	stat, err := statistics.Calculate(t, bt.periodsPerYear)
	if err != nil {
		return err
	}
	stat.StrategyName = bt.Strategy.Name()
	stat.BacktestNumber = number
	stat.PrintResults()
	bt.m.Lock()
	bt.results = t
	bt.statistic = stat
	bt.m.Unlock()
	return nil
}

// attachLogFile copies every backtester sub logger to w until the returned
// func is called, which also closes w
func attachLogFile(w io.WriteCloser) (func() error, error) {
	loggers := make([]*log.SubLogger, 0, len(common.SubLoggers)+1)
	seen := make(map[*log.SubLogger]struct{})
	for _, sl := range common.SubLoggers {
		loggers = append(loggers, sl)
	}
	loggers = append(loggers, log.DatabaseMgr)
	var attached []*log.SubLogger
	detach := func() error {
		var errs error
		for i := range attached {
			errs = common.AppendError(errs, log.RemoveWriter(attached[i], w))
		}
		return common.AppendError(errs, w.Close())
	}
	for _, sl := range loggers {
		if sl == nil {
			continue
		}
		if _, ok := seen[sl]; ok {
			continue
		}
		seen[sl] = struct{}{}
		if err := log.AddWriter(sl, w); err != nil {
			// w is closed by detach
			return nil, common.AppendError(err, detach())
		}
		attached = append(attached, sl)
	}
	return detach, nil
}

func (bt *BackTest) closeResources() error {
	bt.m.Lock()
	closers := bt.closers
	bt.closers = nil
	bt.m.Unlock()
	var errs error
	for i := range closers {
		errs = common.AppendError(errs, closers[i]())
	}
	return errs
}

func (bt *BackTest) finish(err error) {
	bt.m.Lock()
	defer bt.m.Unlock()
	bt.runErr = err
	if bt.MetaData.DateEnded.IsZero() {
		bt.MetaData.DateEnded = time.Now()
	}
	bt.MetaData.Closed = true
}

// Stop signals the run to finish after the bar being processed and waits
// for it to do so
func (bt *BackTest) Stop() error {
	if bt == nil {
		return fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	bt.m.Lock()
	if bt.MetaData.Closed {
		bt.m.Unlock()
		return fmt.Errorf("%w %v", errAlreadyRan, bt.MetaData.ID)
	}
	if bt.shutdown != nil {
		close(bt.shutdown)
	}
	bt.MetaData.Closed = true
	bt.MetaData.DateEnded = time.Now()
	started := !bt.MetaData.DateStarted.IsZero()
	bt.m.Unlock()

	bt.wg.Wait()
	if !started {
		return bt.closeResources()
	}
	return nil
}

// IsRunning checks if the run is running
func (bt *BackTest) IsRunning() bool {
	if bt == nil {
		return false
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	return !bt.MetaData.DateStarted.IsZero() && !bt.MetaData.Closed
}

// HasRan checks if the run has been ran
func (bt *BackTest) HasRan() bool {
	if bt == nil {
		return false
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	return bt.MetaData.Closed
}

// Equal checks if the incoming run matches
func (bt *BackTest) Equal(other *BackTest) bool {
	if bt == nil || other == nil {
		return false
	}
	if bt == other {
		return true
	}
	bt.m.Lock()
	md := bt.MetaData
	bt.m.Unlock()
	other.m.Lock()
	defer other.m.Unlock()
	return md == other.MetaData
}

// MatchesID checks if the backtesting run's ID matches the supplied
func (bt *BackTest) MatchesID(id uuid.UUID) bool {
	if bt == nil || id.IsNil() {
		return false
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	return bt.MetaData.ID == id
}

// SetupMetaData will populate metadata fields
func (bt *BackTest) SetupMetaData() error {
	if bt == nil {
		return fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	if bt.MetaData.ID.IsNil() {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		bt.MetaData.ID = id
	}
	if bt.MetaData.Strategy == "" && bt.Strategy != nil {
		bt.MetaData.Strategy = bt.Strategy.Name()
	}
	if bt.MetaData.DateLoaded.IsZero() {
		bt.MetaData.DateLoaded = time.Now()
	}
	return nil
}

// GenerateSummary creates a summary of a strategy task
func (bt *BackTest) GenerateSummary() (*TaskSummary, error) {
	if bt == nil {
		return nil, fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	sum := &TaskSummary{
		MetaData:  bt.MetaData,
		Statistic: bt.statistic,
	}
	if bt.runErr != nil {
		sum.Error = bt.runErr.Error()
	}
	return sum, nil
}

// Err returns the error the run finished with
func (bt *BackTest) Err() error {
	if bt == nil {
		return fmt.Errorf("%w backtester", common.ErrNilPointer)
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	return bt.runErr
}

// ResultsTable returns the table generated at the end of the run
func (bt *BackTest) ResultsTable() *results.Table {
	if bt == nil {
		return nil
	}
	bt.m.Lock()
	defer bt.m.Unlock()
	return bt.results
}

func (bt *BackTest) id() uuid.UUID {
	bt.m.Lock()
	defer bt.m.Unlock()
	return bt.MetaData.ID
}
