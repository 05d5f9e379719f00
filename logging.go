package fib

import (
	"github.com/joeycumines/logiface"
)

// Package-level logger configuration. Logging is an infrastructure concern
// shared by every runtime user, and the runtime itself is a package-level
// singleton, so the logger is too. The zero state is disabled.
var pkgLogger *logiface.Logger[logiface.Event]

// SetLogger configures the structured logger used by the scheduler for task
// lifecycle events (spawn, block, wake, finish, at trace level) and for
// abandoned-deadlock reporting (at error level). A nil logger disables
// logging. Like everything else in this package, SetLogger must not race
// with a running scheduler.
func SetLogger(l *logiface.Logger[logiface.Event]) {
	pkgLogger = l
}

func logger() *logiface.Logger[logiface.Event] {
	return pkgLogger
}
