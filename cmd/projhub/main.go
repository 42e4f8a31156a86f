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
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/projhub/cmd/projhub/commands"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"github.com/walteh/projhub/pkg/log"

	_ "github.com/walteh/projhub/pkg/source/file"
	_ "github.com/walteh/projhub/pkg/source/github"
	_ "github.com/walteh/projhub/pkg/source/gitlab"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	console := log.New(stderr, zerolog.Nop())

	rootCmd, err := newRootCmd(stdout, stderr)
	if err != nil {
		console.Error(err.Error())
		return 1
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		console.Errorf("%v", err)
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Commands share one RootOpts that is
// filled in once the config is loaded, so version and help work without one.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, error) {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "projhub",
		Short: "Aggregate projects from GitHub, GitLab and other data sources",
		Long: `projhub aggregates project metadata from multiple source code hosts
behind one API keyed by a data source guid. Public sources are listed without
credentials, authorized sources through an OAuth access token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsConfig(cmd) {
				return nil
			}

			logger := setupLogging(stderr, "console")
			ctx := logger.WithContext(cmd.Context())

			built, err := newRootOpts(ctx, stdout)
			if err != nil {
				return err
			}

			logger = setupLogging(stderr, built.Config.Log.Format)
			*o = *built

			ctx = log.NewContext(logger.WithContext(cmd.Context()), log.New(stderr, logger))
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := addRootFlags(rootCmd); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(
		commands.NewServeCmd(o),
		commands.NewSourcesCmd(o),
		commands.NewProjectsCmd(o),
		commands.NewOAuthCmd(o),
		commands.NewWizardCmd(o),
		newVersionCmd(stdout),
	)

	return rootCmd, nil
}

// needsConfig is false for commands that must work without a config file
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return false
		}
	}
	return true
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("output") == "json" {
				return printVersionJSON(stdout)
			}
			_, err := fmt.Fprint(stdout, FormatVersion())
			return err
		},
	}
	return cmd
}
