package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/rollbar/rollbar-go"
	rollbarErrors "github.com/rollbar/rollbar-go/errors"

	"coursehub/config"
)

var (
	std     = log.New(os.Stderr, "", log.LstdFlags)
	enabled bool
)

// Init configures Rollbar reporting. Without a token only the std logger is used.
func Init(conf *config.Config) {
	enabled = conf.RollbarToken != ""
	rollbar.SetEnabled(enabled)
	if !enabled {
		return
	}
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerRoot("coursehub")
	rollbar.SetStackTracer(rollbarErrors.StackTracer)
}

// Close flushes queued Rollbar items.
func Close() {
	if enabled {
		rollbar.Close()
	}
}

func line(tag, format string, args ...interface{}) string {
	return fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

func Info(tag, format string, args ...interface{}) {
	std.Println(line(tag, format, args...))
}

func Warn(tag, format string, args ...interface{}) {
	msg := line(tag, format, args...)
	std.Println(msg)
	if enabled {
		rollbar.Warning(msg)
	}
}

// Error logs err with context and forwards it to Rollbar.
func Error(tag string, err error, format string, args ...interface{}) {
	msg := line(tag, format, args...)
	std.Printf("%s: %+v", msg, err)
	if enabled {
		rollbar.Error(err, map[string]interface{}{"context": msg})
	}
}
