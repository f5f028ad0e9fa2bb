// Package async starts background goroutines that survive panics.
package async

import (
	"fmt"
	"runtime/debug"
)

// PanicLogger receives panic reports.
type PanicLogger interface {
	Error(format string, args ...any)
}

// Go runs fn in a goroutine; a panic is logged under name instead of
// crashing the process.
func Go(logger PanicLogger, name string, fn func()) {
	go func() {
		defer Recover(logger, name)
		fn()
	}()
}

// Run calls fn and turns a panic into an error.
func Run(logger PanicLogger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report(logger, name, r)
			err = fmt.Errorf("%s panicked: %v", label(name), r)
		}
	}()
	return fn()
}

// Recover must be deferred; it logs a panic with its stack.
func Recover(logger PanicLogger, name string) {
	if r := recover(); r != nil {
		report(logger, name, r)
	}
}

func report(logger PanicLogger, name string, r any) {
	if logger == nil {
		return
	}
	logger.Error("goroutine panic [%s]: %v, stack: %s", label(name), r, debug.Stack())
}

func label(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}
