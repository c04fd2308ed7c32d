// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cssq/config"
	"cssq/css"
	"cssq/source"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// CSSOptions returns parser and matcher options following configuration.
// Diagnostics are logged as warnings when debug reporting is enabled.
func (e *LocalEnv) CSSOptions() []css.Option {
	if e.Cfg == nil || !e.Cfg.Parser.Debug {
		return nil
	}
	log := e.logger()
	return []css.Option{
		css.WithDebug(true),
		css.WithSink(func(d css.Diagnostic) {
			log.Warn("Stylesheet problem", zap.Error(&d), zap.String("context", d.Context))
		}),
	}
}

// Loader returns stylesheet loader following configuration.
func (e *LocalEnv) Loader() (*source.Loader, error) {
	var opts []source.Option
	if e.Cfg != nil {
		if e.Cfg.Parser.Encoding != "" {
			enc, err := source.LookupEncoding(e.Cfg.Parser.Encoding)
			if err != nil {
				return nil, fmt.Errorf("unable to use configured encoding: %w", err)
			}
			opts = append(opts, source.WithEncoding(enc))
		}
		opts = append(opts, source.WithEntities(e.Cfg.Parser.DecodeEntities))
	}
	return source.NewLoader(e.logger(), opts...), nil
}

// ParseSheets parses sheets into a fresh store in order. Sheets are stored in
// debug report when it was requested. Parse problems do not stop processing,
// they are returned combined after all sheets were read.
func (e *LocalEnv) ParseSheets(sheets []source.Sheet) (*css.Store, error) {
	store := css.NewStore()
	parser := css.NewParser(e.logger(), e.CSSOptions()...)

	var problems int
	for _, sheet := range sheets {
		e.Rpt.StoreData("sheets/"+sheet.Name, sheet.Data)
		if err := parser.Parse(store, sheet.Data, sheet.Name); err != nil {
			problems++
			e.logger().Debug("Stylesheet has problems", zap.String("source", sheet.Name), zap.Error(err))
		}
	}
	if problems > 0 {
		return store, fmt.Errorf("%d of %d stylesheet(s) have problems", problems, len(sheets))
	}
	return store, nil
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
