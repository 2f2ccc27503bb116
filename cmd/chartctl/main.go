// Command chartctl validates, inspects and converts machine configuration
// files.
//
//	chartctl validate FILE...
//	chartctl export [--format json|yaml|dot] [--output PATH] FILE
//	chartctl version FILE
//	chartctl states [--tag TAG] FILE
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/comalice/chartbuild"
	"github.com/comalice/chartbuild/chartio"
	"github.com/comalice/chartbuild/internal/config"
	"github.com/comalice/chartbuild/internal/logging"
)

const usage = `usage: chartctl <command> [flags] FILE...

commands:
  validate   check one or more configuration files
  export     convert a configuration to json, yaml or dot
  version    print the configuration version
  states     list state paths
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type command struct {
	flags *pflag.FlagSet
	run   func(cmd *command, args []string) error

	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	name, rest := args[0], args[1:]
	cmd := newCommand(name, stderr)
	if cmd == nil {
		fmt.Fprintf(stderr, "chartctl: unknown command %q\n\n%s", name, usage)
		return 2
	}
	if err := cmd.flags.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	envFile, _ := cmd.flags.GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintf(stderr, "chartctl: %v\n", err)
		return 1
	}
	configPath, _ := cmd.flags.GetString("config")
	cfg, err := config.Load(configPath, cmd.flags)
	if err != nil {
		fmt.Fprintf(stderr, "chartctl: %v\n", err)
		return 1
	}
	logger, cleanup, err := logging.New(cfg.Logger.Logging())
	if err != nil {
		fmt.Fprintf(stderr, "chartctl: logger: %v\n", err)
		return 1
	}
	defer cleanup()

	cmd.cfg = cfg
	cmd.logger = logger.With(zap.String("command", name))
	cmd.out = stdout

	if err := cmd.run(cmd, cmd.flags.Args()); err != nil {
		fmt.Fprintf(stderr, "chartctl %s: %v\n", name, err)
		return 1
	}
	return 0
}

func newCommand(name string, stderr io.Writer) *command {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.String("config", "", "optional YAML settings file")
	flags.String("env-file", ".env", "optional file of CHARTCTL_* variables")
	flags.String("log-level", "warn", "debug, info, warn or error")
	flags.String("log-format", "console", "json or console")
	flags.String("log-output", "stderr", "stdout, stderr or a file path")

	cmd := &command{flags: flags}
	switch name {
	case "validate":
		cmd.run = runValidate
	case "export":
		flags.StringP("format", "f", "json", "json, yaml or dot")
		flags.StringP("output", "o", "", "write to a file instead of stdout")
		flags.StringSlice("active", nil, "state paths to highlight in dot output")
		cmd.run = runExport
	case "version":
		cmd.run = runVersion
	case "states":
		flags.String("tag", "", "only list states carrying this tag")
		cmd.run = runStates
	default:
		return nil
	}
	return cmd
}

func runValidate(cmd *command, args []string) error {
	if len(args) == 0 {
		return errors.New("no files given")
	}
	var failed []error
	for _, path := range args {
		cfg, err := chartio.ReadFile(path)
		if err != nil {
			cmd.logger.Debug("validation failed", zap.String("file", path), zap.Error(err))
			fmt.Fprintf(cmd.out, "FAIL %s\n%v\n", path, err)
			failed = append(failed, err)
			continue
		}
		fmt.Fprintf(cmd.out, "ok   %s (%s, %d states, version %s)\n",
			path, cfg.ID, len(cfg.Paths()), chartbuild.ComputeVersion(cfg))
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files invalid", len(failed), len(args))
	}
	return nil
}

func runExport(cmd *command, args []string) error {
	cfg, err := readOne(args)
	if err != nil {
		return err
	}
	active, _ := cmd.flags.GetStringSlice("active")

	var data []byte
	if cmd.cfg.Export.Format == "dot" {
		data = []byte(chartio.DOT(cfg, active...))
	} else {
		f, err := chartio.ParseFormat(cmd.cfg.Export.Format)
		if err != nil {
			return err
		}
		if data, err = chartio.Marshal(cfg, f); err != nil {
			return err
		}
	}

	if out := cmd.cfg.Export.Output; out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		cmd.logger.Info("exported", zap.String("machine", cfg.ID), zap.String("file", out),
			zap.String("format", cmd.cfg.Export.Format))
		return nil
	}
	_, err = cmd.out.Write(data)
	return err
}

func runVersion(cmd *command, args []string) error {
	cfg, err := readOne(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.out, chartbuild.ComputeVersion(cfg))
	return nil
}

func runStates(cmd *command, args []string) error {
	cfg, err := readOne(args)
	if err != nil {
		return err
	}
	tag, _ := cmd.flags.GetString("tag")
	for _, path := range cfg.Paths() {
		if tag != "" {
			s, err := cfg.FindState(path)
			if err != nil || !slices.Contains(s.Tags, tag) {
				continue
			}
		}
		fmt.Fprintln(cmd.out, path)
	}
	return nil
}

func readOne(args []string) (*chartbuild.MachineConfig, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one file, got %d", len(args))
	}
	return chartio.ReadFile(args[0])
}
