package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/leadgate/leadgate/internal/pkg/context"
)

var Log zerolog.Logger

// Init configures the process-wide logger. Level and format come from config,
// not from the environment directly; "console" is the human format for local
// runs, everything else means JSON lines.
func Init(level, format string) {
	configure(os.Stdout, level, format)
}

// InitWithWriter routes JSON logs to w at info level; used by tests to keep
// request logging out of the test output.
func InitWithWriter(w io.Writer) {
	configure(w, "info", "json")
}

func configure(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(lvl)
	Log = l
	zlog.Logger = l
}

// Ctx returns a logger carrying the request id when one is in context.
func Ctx(ctx context.Context) *zerolog.Logger {
	if reqID := appCtx.GetRequestID(ctx); reqID != "" {
		l := Log.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Log
}
