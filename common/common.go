package common

import (
	"errors"
	"sync"

	"github.com/thrasher-corp/barbacktester/log"
)

var registerOnce sync.Once

// RegisterBacktesterSubLoggers sets up all sub loggers used by the backtester.
// It is safe to call more than once, only the first call registers
func RegisterBacktesterSubLoggers() error {
	var err error
	registerOnce.Do(func() {
		for name, sl := range SubLoggers {
			if sl != nil {
				continue
			}
			SubLoggers[name], err = log.NewSubLogger(name)
			if err != nil {
				return
			}
		}
	})
	return err
}

// AppendError appends an error to a list of existing errors, either argument
// may be nil
func AppendError(original, incoming error) error {
	switch {
	case incoming == nil:
		return original
	case original == nil:
		return incoming
	default:
		return errors.Join(original, incoming)
	}
}
