package objc

import (
	"io"
	"log/slog"
	"os"
	"strconv"
)

// Config controls the optional checks a Runtime performs around each message
// send.
type Config struct {
	// Verify enables verification of each message against the receiver's
	// method signature before sending it. With verification enabled,
	// messages to nil fail with *NilReceiverError instead of returning the
	// zero value.
	Verify bool
	// CatchExceptions intercepts foreign exceptions raised during message
	// sends and reports them as *ExceptionError. The backend must implement
	// Catcher.
	CatchExceptions bool
	// Logger receives diagnostic records. If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration selected by build tags: objc_verify
// enables Verify and objc_exception enables CatchExceptions. The OBJC_VERIFY
// environment variable, if set to a boolean, overrides Verify.
func DefaultConfig() Config {
	cfg := Config{Verify: verifyDefault, CatchExceptions: catchDefault}
	if v, ok := os.LookupEnv("OBJC_VERIFY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verify = b
		}
	}
	return cfg
}

// discard is the logger used when Config.Logger is nil.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
