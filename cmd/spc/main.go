package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BTBurke/spc"
	"github.com/BTBurke/spc/pkg/stat"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
)

const (
	exitOK        = 0
	exitError     = 1
	exitViolation = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	files, opts, err := spc.ParseCommandLine()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Printf("Could not parse configuration: %s\n\nUse spc --help for options\n", err)
		return exitError
	}

	cfg, errs := spc.NewConfig(opts...)
	if len(errs) > 0 {
		fmt.Println("Error in config:")
		for _, e := range errs {
			fmt.Println(e)
		}
		return exitError
	}
	if len(files) == 0 {
		fmt.Println("No sample files given\n\nUse spc --help for options")
		return exitError
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: "15:04:05",
		}),
	))

	reporter := spc.NewErrorReporter()
	defer spc.FlushErrors()

	code := exitOK
	var exposition []*spc.Result
	for _, file := range files {
		res, err := analyzeFile(file, cfg)
		if err != nil {
			slog.Error("analysis failed", "file", file, "err", err)
			var inputErr stat.InputError
			if !errors.As(err, &inputErr) {
				reporter.ReportError(err)
			}
			code = exitError
			continue
		}
		if res.CapabilityErr != nil {
			slog.Error("capability analysis failed", "file", file, "err", res.CapabilityErr)
			code = exitError
		}
		if cfg.FailOnViolation && res.Violated() && code == exitOK {
			code = exitViolation
		}
		// Prometheus families must not repeat, so every file goes into one exposition
		if cfg.Format == spc.FormatProm {
			exposition = append(exposition, res)
			continue
		}
		if err := spc.WriteReport(os.Stdout, res, cfg.Format); err != nil {
			slog.Error("could not write report", "file", file, "err", err)
			reporter.ReportError(err)
			code = exitError
		}
	}
	if len(exposition) > 0 {
		if err := spc.WritePrometheusAll(os.Stdout, exposition); err != nil {
			slog.Error("could not write report", "err", err)
			reporter.ReportError(err)
			code = exitError
		}
	}
	return code
}

func analyzeFile(path string, cfg spc.Config) (*spc.Result, error) {
	subgroups, err := spc.LoadSamplesFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded samples", "file", path, "subgroups", len(subgroups))

	res, err := spc.Analyze(subgroups, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Source = path
	return res, nil
}
