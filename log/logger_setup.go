package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errSubLoggerExists       = errors.New("sub logger already registered")
	errEmptySubLoggerName    = errors.New("sub logger name cannot be empty")
	// ErrNilSubLogger is returned when a nil sub logger is used
	ErrNilSubLogger = errors.New("nil sub logger")
)

func getWriters(s *SubLoggerConfig) (*multiWriter, error) {
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	if s.Output == "" {
		return mw, nil
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	showName := true
	enabled := true
	return Config{
		Enabled: &enabled,
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|DEBUG|WARN|ERROR",
			Output: "console",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: &showName,
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

func newLogger(c Config) Logger {
	return Logger{
		ShowLogSystemName: c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
	}
}

// SetupGlobalLogger applies the config to the logger and every registered
// sub logger. Per sub logger entries override the global level and output
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		return errors.New("nil logger config")
	}
	if c.Enabled != nil && !*c.Enabled {
		c.Level = ""
	}
	output, err := getWriters(&c.SubLoggerConfig)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(*c)
	for _, sl := range subLoggers {
		sl.levels = splitLevel(c.Level)
		sl.output = output
	}
	for x := range c.SubLoggers {
		output, err = getWriters(&c.SubLoggers[x])
		if err != nil {
			return err
		}
		err = configureSubLogger(strings.ToUpper(c.SubLoggers[x].Name), c.SubLoggers[x].Level, output)
		if err != nil {
			return err
		}
	}
	return nil
}

func configureSubLogger(subLogger, levels string, output *multiWriter) error {
	sl, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("%w %v", errSubLoggerNotFound, subLogger)
	}
	sl.output = output
	sl.levels = splitLevel(levels)
	return nil
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(enabledLevels[x]) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

// NewSubLogger registers a new sub logger writing to stdout at all levels
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptySubLoggerName
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subLoggers[name]; ok {
		return nil, fmt.Errorf("%w %v", errSubLoggerExists, name)
	}
	return registerNewSubLogger(name), nil
}

func registerNewSubLogger(subLogger string) *SubLogger {
	mw, _ := MultiWriter(os.Stdout)
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		output: mw,
		levels: splitLevel("INFO|WARN|DEBUG|ERROR"),
	}
	subLoggers[temp.name] = temp
	return temp
}

// AddWriter attaches an additional output to the sub logger, for example a
// per run log file
func AddWriter(sl *SubLogger, w io.Writer) error {
	if sl == nil {
		return ErrNilSubLogger
	}
	mu.Lock()
	defer mu.Unlock()
	// detach from any writer shared with other sub loggers first
	fresh := &multiWriter{}
	sl.output.mu.RLock()
	fresh.writers = append(fresh.writers, sl.output.writers...)
	sl.output.mu.RUnlock()
	if err := fresh.Add(w); err != nil {
		return err
	}
	sl.output = fresh
	return nil
}

// RemoveWriter detaches an output previously attached with AddWriter
func RemoveWriter(sl *SubLogger, w io.Writer) error {
	if sl == nil {
		return ErrNilSubLogger
	}
	mu.Lock()
	defer mu.Unlock()
	return sl.output.Remove(w)
}

// Name returns the sub logger name
func (sl *SubLogger) Name() string {
	if sl == nil {
		return ""
	}
	return sl.name
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	ConfigMgr = registerNewSubLogger("CONFIG")
	DatabaseMgr = registerNewSubLogger("DATABASE")
	RESTSys = registerNewSubLogger("REST")
}
