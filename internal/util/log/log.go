// Package log is the module's ambient logging wrapper, grounded on the
// call-site contract of Tempo's modules/backendscheduler (level.Info,
// level.Error over a package-level Logger), even though that package's own
// source wasn't part of the retrieved reference pack.
package log

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the package-level logger every CLI entry point logs through.
// planning itself never touches this — it is a pure function — so this
// package only matters to cmd/planning-cli and to anything built against
// planning.Observer.
var Logger kitlog.Logger = newDefaultLogger()

func newDefaultLogger() kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)
	return level.NewFilter(l, level.AllowInfo())
}

// SetLevel narrows or widens the minimum level SetLevel's caller wants to
// see, rebuilding Logger with the same formatting.
func SetLevel(l string) {
	base := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	base = kitlog.With(base, "ts", kitlog.DefaultTimestampUTC)

	switch l {
	case "debug":
		Logger = level.NewFilter(base, level.AllowDebug())
	case "warn":
		Logger = level.NewFilter(base, level.AllowWarn())
	case "error":
		Logger = level.NewFilter(base, level.AllowError())
	default:
		Logger = level.NewFilter(base, level.AllowInfo())
	}
}
