//
//  Copyright 2026 rubberove, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rubberove/switflake/internal/config"
	"github.com/rubberove/switflake/internal/logging"
	"github.com/rubberove/switflake/internal/mint"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		cancel()
		os.Exit(1)
	}
}

// reported marks errors already written to the configured log
type reported struct{ error }

func (e reported) Unwrap() error { return e.error }

// run executes the root command. Errors raised before the configured logger
// exists (arguments, flags, config) are written to stderr with default logger.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var r reported
	if !errors.As(err, &r) {
		logger, closer, lerr := logging.New(config.Default().Log, stderr)
		if lerr != nil {
			return err
		}
		defer closer.Close()
		logger.WithError(err).Error("invalid invocation")
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switflake",
		Short: "Mint k-ordered 64-bit identifiers",
		Long: "switflake runs up to 8 concurrent generators, each mints a batch of\n" +
			"identifiers ⟨time | node | slot | counter⟩ and prints one per line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer, err := logging.New(cfg.Log, stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := mint.Run(cmd.Context(), *cfg, stdout, logger); err != nil {
				logger.WithError(err).Error("failed to mint identifiers")
				return reported{err}
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringP("config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "JSON config file")
	flags.Uint64P("node", "n", 0, "node identifier, 0..4095")
	flags.IntP("workers", "w", 1, "number of concurrent generators, 1..8")
	flags.IntP("count", "k", 1, "identifiers per generator, 1..255")
	flags.StringP("format", "f", "decimal", "output format: decimal|hex|string|json")
	flags.String("log-level", "info", "log level: trace|debug|info|warn|error")

	return cmd
}

// loadConfig layers explicitly set flags over file and environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	file, _ := flags.GetString("config")
	cfg, err := config.Read(file)
	if err != nil {
		return nil, err
	}

	if flags.Changed("node") {
		cfg.Node, _ = flags.GetUint64("node")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}
