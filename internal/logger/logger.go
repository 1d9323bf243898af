package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/artcrate/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string    // "debug","info","warn","error"
	JSON  bool      // structured output for scripts and the serve mode
	Color bool      // colorize console output
	Out   io.Writer // default os.Stderr
}

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	out      io.Writer = os.Stderr
	p        *printer.ColorPrinter
	curLevel = zapcore.InfoLevel
	jsonMode bool
	ready    atomic.Bool
	testMode atomic.Bool
)

func init() {
	Configure(Options{Level: "info", Color: true})
}

// Configure sets up the global logger. Logs go to stderr by default so that
// table and JSON results on stdout stay pipeable.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(opts)
}

func configureLocked(opts Options) {
	if opts.Out != nil {
		out = opts.Out
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.CallerKey = ""
		encCfg.MessageKey = "msg"
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	level := parseLevel(opts.Level)
	core := zapcore.NewCore(enc, zapcore.AddSync(writerAdapter{out}), level)
	zlog = zap.New(core).Sugar()
	jsonMode = opts.JSON

	p = printer.NewColorPrinter(opts.Color && !opts.JSON)

	ready.Store(true)
}

// SetLevel adjusts the current level at runtime.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(Options{Level: level, JSON: jsonMode, Color: !jsonMode, Out: out})
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	configureLocked(Options{Level: curLevel.String(), JSON: jsonMode, Color: !jsonMode, Out: w})
}

// UseTestMode silences logs during tests. Later flag-driven configuration
// is ignored.
func UseTestMode() {
	testMode.Store(true)
	Configure(Options{
		Level: "error",
		Out:   io.Discard,
	})
}

// Out returns the current log writer.
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// Sync flushes buffered entries, if any.
func Sync() {
	if !ensureReady() {
		return
	}
	mu.RLock()
	_ = zlog.Sync()
	mu.RUnlock()
}

// ---- Public logging API ----

func Info(msg string, args ...interface{}) {
	logf(zapcore.InfoLevel, p.Info, "✨ ", msg, args...)
}

func Success(msg string, args ...interface{}) {
	logf(zapcore.InfoLevel, p.Success, "✅ ", msg, args...)
}

func LogError(msg string, args ...interface{}) {
	logf(zapcore.ErrorLevel, p.Error, "❌ ", msg, args...)
}

func Warn(msg string, args ...interface{}) {
	logf(zapcore.WarnLevel, p.Warning, "⚠️ ", msg, args...)
}

func Debug(msg string, args ...interface{}) {
	logf(zapcore.DebugLevel, p.Debug, "🛠️ ", msg, args...)
}

// ---- Tables ----

// CreateTable returns a table writing to w (stdout for command results).
func CreateTable(w io.Writer, headers []string) *tablewriter.Table {
	if w == nil {
		w = os.Stdout
	}
	t := tablewriter.NewTable(w)
	t.Header(headers)
	return t
}

// ---- internals ----

func logf(level zapcore.Level, paint func(string, ...interface{}) string, icon, msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !zlog.Desugar().Core().Enabled(level) {
		return
	}
	line := paint(icon+msg, args...)
	if jsonMode {
		line = paint(msg, args...)
	}
	switch level {
	case zapcore.DebugLevel:
		zlog.Debug(line)
	case zapcore.WarnLevel:
		zlog.Warn(line)
	case zapcore.ErrorLevel:
		zlog.Error(line)
	default:
		zlog.Info(line)
	}
}

type writerAdapter struct{ w io.Writer }

func (wa writerAdapter) Write(p []byte) (int, error) { return wa.w.Write(p) }

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		curLevel = zapcore.DebugLevel
	case "warn":
		curLevel = zapcore.WarnLevel
	case "error":
		curLevel = zapcore.ErrorLevel
	default:
		curLevel = zapcore.InfoLevel
	}
	return curLevel
}

func ensureReady() bool {
	return ready.Load() && p != nil && zlog != nil
}
