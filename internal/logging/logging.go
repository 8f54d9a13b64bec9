package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the diagnostics logger. Diagnostics always go to w (stderr when
// nil) so that stdout stays reserved for reports and structured output.
func New(w io.Writer, verbose bool) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
		encCfg.NameKey = "logger"
	} else {
		encCfg.NameKey = ""
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

// Reporter adapts a zap logger to scoring.Reporter.
type Reporter struct {
	Logger *zap.Logger
	// Lab is attached to every entry when set.
	Lab string
}

func (r Reporter) Report(problem string, offenders []string) {
	if r.Logger == nil {
		return
	}
	fields := []zap.Field{zap.Int("count", len(offenders))}
	if r.Lab != "" {
		fields = append(fields, zap.String("lab", r.Lab))
	}
	r.Logger.Error(problem, fields...)
	r.Logger.Error("offenders: " + strings.Join(offenders, ", "))
}
