package core

// Logger is any service that can log application events, optionally
// shipping them to an external error tracker.
type Logger interface {
	Enable(enabled bool)
	Info(msg string, args ...interface{})
	Error(msg string, err error, args ...interface{})
}
