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

package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"github.com/walteh/projhub/pkg/aggregate"
	"github.com/walteh/projhub/pkg/log"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 4

// NewSourcesCmd creates the sources command
func NewSourcesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.Printer.Sources(opts.Service.Sources())
		},
	}

	cmd.AddCommand(newSourcesCheckCmd(opts))

	return cmd
}

func newSourcesCheckCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe every public data source",
		Long: `Check lists the projects of every public data source and reports
how many it returned. Authorized sources need a user token and are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			console.Header("checking data sources")

			sources := opts.Service.Sources()
			results := make([]log.SourceResult, len(sources))

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(checkConcurrency)
			for i, ds := range sources {
				results[i] = log.SourceResult{Name: ds.Name, Kind: string(ds.Kind)}
				if ds.Kind != source.KindPublic {
					results[i].Skipped = true
					continue
				}

				g.Go(func() error {
					start := time.Now()
					projects, err := opts.Service.ListProjects(gctx, ds.GUID, "", aggregate.WithOwner(ds.Owner))
					results[i].Took = time.Since(start)
					results[i].Projects = len(projects)
					results[i].Err = err
					// a failed probe is reported, not fatal
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, r := range results {
				console.LogSourceResult(ctx, r)
			}

			ok, failed, skipped := console.Summary()
			console.LogNewline()
			if skipped > 0 {
				console.Infof("%d authorized source(s) need a user token and were skipped", skipped)
			}
			if failed > 0 {
				console.Warningf("%d of %d probed source(s) failed", failed, ok+failed)
				return errors.Errorf("%d data source(s) failed", failed)
			}
			console.Successf("%d source(s) answered", ok)
			return nil
		},
	}
}
