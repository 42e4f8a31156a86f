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
	"net/url"

	"github.com/spf13/cobra"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"gitlab.com/tozd/go/errors"
)

// NewWizardCmd creates the wizard command
func NewWizardCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard <source-uri>",
		Short: "Look up a project by its source URI",
		Example: `  projhub wizard https://github.com/walteh/copyrc
  projhub wizard -o json https://gitlab.com/gitlab-org/gitlab`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := url.Parse(args[0])
			if err != nil || !uri.IsAbs() || uri.Host == "" {
				return errors.Errorf("invalid source uri %q", args[0])
			}

			p, err := opts.Service.FetchProjectByURI(cmd.Context(), uri)
			if err != nil {
				return errors.Errorf("looking up %s: %w", uri, err)
			}
			if p.IsEmptyShell() {
				return errors.Errorf("no project found at %s", uri)
			}
			return opts.Printer.Project(p)
		},
	}
}
