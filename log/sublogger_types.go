package log

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global      *SubLogger
	BackTester  *SubLogger
	ConfigMgr   *SubLogger
	DatabaseMgr *SubLogger
	RESTSys     *SubLogger
)

// SubLogger is a named logging channel with its own levels and outputs
type SubLogger struct {
	name   string
	levels Levels
	output *multiWriter
}
