package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/log"
)

var (
	errTaskNotFound         = errors.New("task not found")
	errTaskAlreadyMonitored = errors.New("task already monitored")
	errAlreadyRan           = errors.New("task already ran")
	errTaskHasNotRan        = errors.New("task hasn't ran yet")
	errTaskIsRunning        = errors.New("task is already running")
	errCannotClear          = errors.New("cannot clear task")
)

// NewTaskManager creates a task manager to allow the backtester to manage multiple strategies
func NewTaskManager() *TaskManager {
	return &TaskManager{}
}

// AddTask adds a backtest to the manager
func (r *TaskManager) AddTask(b *BackTest) error {
	if r == nil {
		return fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	if b == nil {
		return fmt.Errorf("%w BackTest", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.tasks {
		if r.tasks[i].Equal(b) {
			return fmt.Errorf("%w %s", errTaskAlreadyMonitored, b.id())
		}
	}
	if err := b.SetupMetaData(); err != nil {
		return err
	}
	r.tasks = append(r.tasks, b)
	log.Debugf(common.SubLoggers[common.Backtester], "task %v added", b.id())
	return nil
}

// List details all strategy tasks
func (r *TaskManager) List() ([]*TaskSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	resp := make([]*TaskSummary, len(r.tasks))
	for i := range r.tasks {
		sum, err := r.tasks[i].GenerateSummary()
		if err != nil {
			return nil, err
		}
		resp[i] = sum
	}
	return resp, nil
}

// GetSummary returns details about a strategy task
func (r *TaskManager) GetSummary(id uuid.UUID) (*TaskSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.tasks {
		if !r.tasks[i].MatchesID(id) {
			continue
		}
		return r.tasks[i].GenerateSummary()
	}
	return nil, fmt.Errorf("%s %w", id, errTaskNotFound)
}

// StopTask stops a running strategy task after its current bar
func (r *TaskManager) StopTask(id uuid.UUID) error {
	if r == nil {
		return fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.tasks {
		switch {
		case !r.tasks[i].MatchesID(id):
			continue
		case r.tasks[i].IsRunning():
			return r.tasks[i].Stop()
		case r.tasks[i].HasRan():
			return fmt.Errorf("%w %v", errAlreadyRan, id)
		default:
			return fmt.Errorf("%w %v", errTaskHasNotRan, id)
		}
	}
	return fmt.Errorf("%s %w", id, errTaskNotFound)
}

// StopAllTasks stops all running strategies
func (r *TaskManager) StopAllTasks() ([]*TaskSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	resp := make([]*TaskSummary, 0, len(r.tasks))
	for i := range r.tasks {
		if !r.tasks[i].IsRunning() {
			continue
		}
		if err := r.tasks[i].Stop(); err != nil {
			return nil, err
		}
		sum, err := r.tasks[i].GenerateSummary()
		if err != nil {
			return nil, err
		}
		resp = append(resp, sum)
	}
	return resp, nil
}

// StartTask executes a strategy if found
func (r *TaskManager) StartTask(id uuid.UUID) error {
	if r == nil {
		return fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.tasks {
		switch {
		case !r.tasks[i].MatchesID(id):
			continue
		case r.tasks[i].IsRunning():
			return fmt.Errorf("%w %v", errTaskIsRunning, id)
		case r.tasks[i].HasRan():
			return fmt.Errorf("%w %v", errAlreadyRan, id)
		default:
			return r.tasks[i].ExecuteStrategy(false)
		}
	}
	return fmt.Errorf("%s %w", id, errTaskNotFound)
}

// StartAllTasks executes all strategies that have not ran
func (r *TaskManager) StartAllTasks() ([]uuid.UUID, error) {
	if r == nil {
		return nil, fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	executed := make([]uuid.UUID, 0, len(r.tasks))
	for i := range r.tasks {
		if r.tasks[i].HasRan() || r.tasks[i].IsRunning() {
			continue
		}
		if err := r.tasks[i].ExecuteStrategy(false); err != nil {
			return nil, err
		}
		executed = append(executed, r.tasks[i].id())
	}
	return executed, nil
}

// ClearTask removes a task from memory, but only if it is not running
func (r *TaskManager) ClearTask(id uuid.UUID) error {
	if r == nil {
		return fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.tasks {
		if !r.tasks[i].MatchesID(id) {
			continue
		}
		if r.tasks[i].IsRunning() {
			return fmt.Errorf("%w %v, currently running. Stop it first", errCannotClear, id)
		}
		r.tasks = slices.Delete(r.tasks, i, i+1)
		return nil
	}
	return fmt.Errorf("%s %w", id, errTaskNotFound)
}

// ClearAllTasks removes all tasks from memory, but only if they are not running
func (r *TaskManager) ClearAllTasks() (cleared, remaining []*TaskSummary, err error) {
	if r == nil {
		return nil, nil, fmt.Errorf("%w TaskManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := 0; i < len(r.tasks); i++ {
		var sum *TaskSummary
		sum, err = r.tasks[i].GenerateSummary()
		if err != nil {
			return nil, nil, err
		}
		if r.tasks[i].IsRunning() {
			remaining = append(remaining, sum)
		} else {
			cleared = append(cleared, sum)
			r.tasks = slices.Delete(r.tasks, i, i+1)
			i--
		}
	}
	return cleared, remaining, nil
}
