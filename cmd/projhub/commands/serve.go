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
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/projhub/cmd/projhub/opts"
	"github.com/walteh/projhub/pkg/api"
	"github.com/walteh/projhub/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

const (
	readTimeout     = 10 * time.Second
	writeSlack      = 5 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

// NewServeCmd creates the serve command
func NewServeCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project aggregation API",
		Long: `Serve starts the HTTP API. It exposes:
  /api/wizard       project lookups by data source guid or source URI
  /api/dataSource   the data source list and the OAuth flow
  /healthz          liveness
  /metrics          prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			listen := viper.GetString("listen")
			if listen == "" {
				listen = opts.Config.API.Listen
			}

			mode := viper.GetString("source-check")
			if mode == "" {
				mode = opts.Config.API.SourceCheck
			}
			check, err := api.ParseSourceCheck(mode)
			if err != nil {
				return err
			}

			if check == api.SourceCheckLegacy {
				log.FromContext(ctx).Warning("source check is legacy: wizard routes answer 404 for registered data sources")
			}

			timeout, err := opts.Config.RequestTimeout()
			if err != nil {
				return err
			}

			router := api.NewServer(opts.Service,
				api.WithSourceCheck(check),
				api.WithMetricsHandler(opts.Metrics.Handler()),
				api.WithMiddlewares(middlewares(*logger, timeout)...),
			)

			srv := &http.Server{
				Addr:         listen,
				Handler:      router,
				ReadTimeout:  readTimeout,
				WriteTimeout: writeTimeoutFor(timeout),
				IdleTimeout:  idleTimeout,
				BaseContext: func(_ net.Listener) context.Context {
					return ctx
				},
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info().Str("listen", listen).Str("source_check", string(check)).Int("sources", len(opts.Service.Sources())).Msg("starting api server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return errors.Errorf("serving: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info().Msg("shutting down api server")

				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return errors.Errorf("shutting down: %w", err)
				}
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (defaults to api.listen)")
	cmd.Flags().String("source-check", "", "guard for unknown data sources on wizard routes: legacy or strict (defaults to api.source_check)")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("source-check", cmd.Flags().Lookup("source-check"))

	return cmd
}

// middlewares is the serve chain. A positive timeout cancels the request
// context, and with it the upstream call, once it elapses.
func middlewares(logger zerolog.Logger, timeout time.Duration) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		api.LoggingMiddleware(logger),
		middleware.Recoverer,
	}
	if timeout > 0 {
		mw = append(mw, middleware.Timeout(timeout))
	}
	return mw
}

// writeTimeoutFor keeps the server write deadline behind the request timeout
func writeTimeoutFor(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	return timeout + writeSlack
}
