package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string and writes it
func Info(sl *SubLogger, data string) {
	stage(sl, levelInfo, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface and writes it
func Infoln(sl *SubLogger, v ...interface{}) {
	stage(sl, levelInfo, func() string { return fmt.Sprint(v...) })
}

// Infof takes a pointer subLogger struct, string and interface, formats and writes it
func Infof(sl *SubLogger, data string, v ...interface{}) {
	stage(sl, levelInfo, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string and writes it
func Debug(sl *SubLogger, data string) {
	stage(sl, levelDebug, func() string { return data })
}

// Debugln takes a pointer subLogger struct and interface and writes it
func Debugln(sl *SubLogger, v ...interface{}) {
	stage(sl, levelDebug, func() string { return fmt.Sprint(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface, formats and writes it
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	stage(sl, levelDebug, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct and string and writes it
func Warn(sl *SubLogger, data string) {
	stage(sl, levelWarn, func() string { return data })
}

// Warnln takes a pointer subLogger struct and interface and writes it
func Warnln(sl *SubLogger, v ...interface{}) {
	stage(sl, levelWarn, func() string { return fmt.Sprint(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface, formats and writes it
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	stage(sl, levelWarn, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct and string and writes it
func Error(sl *SubLogger, data string) {
	stage(sl, levelError, func() string { return data })
}

// Errorln takes a pointer subLogger struct and interface and writes it
func Errorln(sl *SubLogger, v ...interface{}) {
	stage(sl, levelError, func() string { return fmt.Sprint(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface, formats and writes it
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	stage(sl, levelError, func() string { return fmt.Sprintf(data, v...) })
}

type level uint8

const (
	levelInfo level = iota
	levelDebug
	levelWarn
	levelError
)

func (l Logger) header(lvl level) string {
	switch lvl {
	case levelInfo:
		return l.InfoHeader
	case levelDebug:
		return l.DebugHeader
	case levelWarn:
		return l.WarnHeader
	default:
		return l.ErrorHeader
	}
}

func (l Levels) enabled(lvl level) bool {
	switch lvl {
	case levelInfo:
		return l.Info
	case levelDebug:
		return l.Debug
	case levelWarn:
		return l.Warn
	default:
		return l.Error
	}
}

// stage formats and writes a log line when the level is enabled, the message
// is only rendered once it is known to be needed
func stage(sl *SubLogger, lvl level, msg func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !sl.levels.enabled(lvl) {
		return
	}
	var b strings.Builder
	b.WriteString(logger.header(lvl))
	b.WriteString(time.Now().Format(logger.TimestampFormat))
	if logger.ShowLogSystemName {
		b.WriteString(logger.Spacer)
		b.WriteString(sl.name)
	}
	b.WriteString(logger.Spacer)
	b.WriteString(msg())
	b.WriteByte('\n')
	displayError(writeLine(sl.output, b.String()))
}

func writeLine(mw *multiWriter, line string) error {
	_, err := mw.Write([]byte(line))
	return err
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}
