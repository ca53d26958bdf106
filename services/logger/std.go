package logsvc

import (
	"log"

	"github.com/projeval/projeval/core"
)

// StdLogger logs to the standard library logger only; used in DEV/TEST.
type StdLogger struct {
	std     *log.Logger
	enabled bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std, enabled: true}
}

func (l *StdLogger) Enable(enabled bool) {
	l.enabled = enabled
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	if !l.enabled {
		return
	}
	l.print("INFO: "+msg, args)
}

func (l *StdLogger) Error(msg string, err error, args ...interface{}) {
	if !l.enabled {
		return
	}
	l.print("ERROR: "+msg, append(args, err))
}

func (l *StdLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
