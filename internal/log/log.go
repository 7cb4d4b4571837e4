package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Kinds separate routine events from the ones reviewed after an incident.
const (
	KindInfo     = "info"
	KindAudit    = "audit"
	KindSecurity = "security"
	KindError    = "error"
)

type Options struct {
	Level string
	// File enables a rotating file sink next to stdout.
	File string
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "ts"
	zerolog.ErrorFieldName = "err"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Setup replaces the process logger. It returns a closer for the file sink,
// which is a no-op when no file is configured.
func Setup(opts Options) (io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(os.Stdout, file)
		closer = file
	}

	mu.Lock()
	logger = zerolog.New(out).Level(level).With().Timestamp().Int("pid", os.Getpid()).Logger()
	mu.Unlock()
	return closer, nil
}

// SetOutput sends every entry to w. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = zerolog.New(w).With().Timestamp().Logger()
	mu.Unlock()
}

// Logger returns the process logger for code that has no request at hand.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func write(ev *zerolog.Event, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	ev = ev.Str("kind", kind).Str("action", action)
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if sid, ok := c.Locals("sid").(string); ok && sid != "" {
			ev = ev.Str("sid", sid)
		}
	}
	if err != nil {
		ev = ev.Stack().Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Dict("fields", zerolog.Dict().Fields(fields))
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(Logger().Info(), KindInfo, c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(Logger().Info(), KindAudit, c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(Logger().Warn(), KindSecurity, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(Logger().Error(), KindError, c, action, err, fields)
}

// Event logs outside of a request, e.g. startup and background work.
func Event(action string, fields map[string]any) {
	write(Logger().Info(), KindInfo, nil, action, nil, fields)
}

// Fail logs a failure outside of a request.
func Fail(action string, err error, fields map[string]any) {
	write(Logger().Error(), KindError, nil, action, err, fields)
}
