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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"gitlab.com/tozd/go/errors"
)

var errNotOAuth = errors.Base("data source does not support OAuth")

// NewOAuthCmd creates the oauth command
func NewOAuthCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Run the OAuth flow of an authorized data source",
	}

	cmd.AddCommand(newOAuthURLCmd(opts), newOAuthExchangeCmd(opts))

	return cmd
}

func newOAuthURLCmd(opts *opts.RootOpts) *cobra.Command {
	var guid, state string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL of a data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := opts.Service.AuthorizationURL(cmd.Context(), guid, state)
			if !ok {
				return errors.Errorf("%w: %s", errNotOAuth, guid)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
	cmd.Flags().StringVarP(&guid, "source", "s", "", "data source guid")
	cmd.Flags().StringVar(&state, "state", "", "opaque state echoed back on the redirect (random when empty)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newOAuthExchangeCmd(opts *opts.RootOpts) *cobra.Command {
	var guid, code string
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, ok, err := opts.Service.ExchangeCode(cmd.Context(), code, guid)
			if !ok {
				return errors.Errorf("%w: %s", errNotOAuth, guid)
			}
			if err != nil {
				return errors.Errorf("exchanging code: %w", err)
			}
			return opts.Printer.Tokens(tokens)
		},
	}
	cmd.Flags().StringVarP(&guid, "source", "s", "", "data source guid")
	cmd.Flags().StringVar(&code, "code", "", "authorization code from the redirect")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
