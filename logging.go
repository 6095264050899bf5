package deoeph

import (
	"os"

	kitlog "github.com/go-kit/log"
)

// NewLogger builds the standard logfmt-to-stdout logger used across the
// simulator, tagged with component, adapted from the teacher's
// SCLogInit/spacecraft.go pattern (NewLogfmtLogger over a synced stdout
// writer, with With-bound component and UTC timestamp fields).
func NewLogger(component string) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(logger, "component", component, "ts", kitlog.DefaultTimestampUTC)
}
