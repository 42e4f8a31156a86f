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
	"github.com/spf13/cobra"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"github.com/walteh/projhub/pkg/aggregate"
	"gitlab.com/tozd/go/errors"
)

// NewProjectsCmd creates the projects command
func NewProjectsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Query the projects of a data source",
	}

	cmd.AddCommand(newProjectsListCmd(opts), newProjectsGetCmd(opts))

	return cmd
}

type projectFlags struct {
	source string
	token  string
	owner  string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "data source guid")
	cmd.Flags().StringVarP(&f.token, "token", "t", "", "OAuth access token; lists the authorized projects of its owner")
	cmd.Flags().StringVar(&f.owner, "owner", "", "owner hint for public sources")
	_ = cmd.MarkFlagRequired("source")
}

func newProjectsListCmd(opts *opts.RootOpts) *cobra.Command {
	f := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects of a data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := opts.Service.ListProjects(cmd.Context(), f.source, f.token, aggregate.WithOwner(f.owner))
			if err != nil {
				return errors.Errorf("listing projects: %w", err)
			}
			return opts.Printer.Projects(projects)
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectsGetCmd(opts *opts.RootOpts) *cobra.Command {
	f := &projectFlags{}
	var id int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get one project of a data source by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.Service.GetProjectByGUID(cmd.Context(), f.source, f.token, id, aggregate.WithOwner(f.owner))
			if err != nil {
				return errors.Errorf("getting project %d: %w", id, err)
			}
			return opts.Printer.Project(p)
		},
	}
	f.register(cmd)
	cmd.Flags().Int64Var(&id, "id", 0, "project id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
