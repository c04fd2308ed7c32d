package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssq/config"
	"cssq/css"
	"cssq/report"
	"cssq/state"
)

func runDump(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheet sources specified")
	}

	mode := env.Cfg.Output.Mode
	if cmd.IsSet("mode") {
		var err error
		if mode, err = config.ParseOutputMode(cmd.String("mode")); err != nil {
			return fmt.Errorf("unable to use requested output mode: %w", err)
		}
	}
	tmpl := env.Cfg.Output.Template
	if cmd.IsSet("template") {
		tmpl = cmd.String("template")
	}

	sheets, err := loadSources(env, cmd.Args().Slice())
	if err != nil {
		return err
	}
	store, err := env.ParseSheets(sheets)
	if err != nil {
		env.Log.Warn("Stylesheets parsed with problems", zap.Error(err))
	}
	env.Log.Debug("Stylesheets parsed", zap.Int("sheets", len(sheets)), zap.Int("rules", store.Len()))

	out, closeOut, err := createOutput(cmd.String("out"))
	if err != nil {
		return err
	}
	defer closeOut()

	if len(tmpl) > 0 {
		return report.WriteRules(out, config.OutputTemplateFieldName, tmpl, store)
	}
	if err := writeStore(out, mode, store); err != nil {
		return fmt.Errorf("unable to write rules: %w", err)
	}
	return nil
}

func writeStore(w io.Writer, mode config.OutputMode, store *css.Store) (err error) {
	switch mode {
	case config.OutputModeStyle:
		_, err = store.WriteStyle(w)
	case config.OutputModeDebug:
		_, err = store.WriteDebug(w)
	case config.OutputModeSpecificity:
		_, err = store.WriteSpecificity(w)
	default:
		_, err = store.WriteTo(w)
	}
	return
}
