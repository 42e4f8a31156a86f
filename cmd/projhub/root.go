// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"github.com/walteh/projhub/pkg/aggregate"
	"github.com/walteh/projhub/pkg/config"
	"github.com/walteh/projhub/pkg/format"
	"github.com/walteh/projhub/pkg/log"
	"github.com/walteh/projhub/pkg/source"
	"github.com/walteh/projhub/pkg/telemetry"
	"gitlab.com/tozd/go/errors"
)

const envPrefix = "PROJHUB"

// addRootFlags adds shared flags to the root command and binds them to
// PROJHUB_* environment variables
func addRootFlags(cmd *cobra.Command) error {
	cmd.PersistentFlags().StringP("config", "c", "projhub.yaml", "config file path (.yaml, .hcl or .json)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringP("output", "o", string(format.OutputTable), "output format (table or json)")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for _, name := range []string{"config", "debug", "output"} {
		if err := viper.BindPFlag(name, cmd.PersistentFlags().Lookup(name)); err != nil {
			return errors.Errorf("binding %s flag: %w", name, err)
		}
	}
	return nil
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, logFormat string) zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := log.Setup(w, logFormat, level)
	zerolog.DefaultContextLogger = &logger
	return logger
}

// newRootOpts loads the config and wires the service every command uses
func newRootOpts(ctx context.Context, stdout io.Writer) (*opts.RootOpts, error) {
	cfg, err := config.Load(ctx, viper.GetString("config"))
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	output, err := format.ParseOutput(viper.GetString("output"))
	if err != nil {
		return nil, err
	}

	cfgs, err := cfg.SourceConfigs()
	if err != nil {
		return nil, err
	}

	reg, err := source.Build(ctx, cfgs)
	if err != nil {
		return nil, errors.Errorf("building data sources: %w", err)
	}

	policy, err := cfg.RetryPolicy()
	if err != nil {
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.New(promReg)

	svc := aggregate.New(reg, aggregate.WithRetry(policy), aggregate.WithMetrics(metrics))

	return &opts.RootOpts{
		Config:   cfg,
		Service:  svc,
		Metrics:  metrics,
		Registry: promReg,
		Printer:  format.NewPrinter(stdout, output),
	}, nil
}
