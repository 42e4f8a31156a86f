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

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/walteh/projhub/pkg/source"
)

// DataSourceRoutes serves the registered data sources and their OAuth flow
type DataSourceRoutes struct {
	service Service
}

// DataSourceRouter creates the router mounted at /api/dataSource
func DataSourceRouter(svc Service) http.Handler {
	routes := &DataSourceRoutes{service: svc}

	r := chi.NewRouter()
	r.Get("/", routes.listDataSources)
	r.Route("/{guid}", func(r chi.Router) {
		r.Get("/", routes.getDataSource)
		r.Get("/oauth/url", routes.authorizationURL)
		r.Post("/oauth/token", routes.exchangeCode)
	})
	return r
}

func (routes *DataSourceRoutes) listDataSources(w http.ResponseWriter, r *http.Request) {
	sources := routes.service.Sources()
	if sources == nil {
		sources = []source.DataSource{}
	}
	WriteJSONResponse(w, sources, http.StatusOK)
}

func (routes *DataSourceRoutes) getDataSource(w http.ResponseWriter, r *http.Request) {
	ds, ok := routes.service.Source(chi.URLParam(r, "guid"))
	if !ok {
		WriteProblem(w, dataSourceNotFound())
		return
	}
	WriteJSONResponse(w, ds, http.StatusOK)
}

func (routes *DataSourceRoutes) authorizationURL(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "guid")

	u, ok := routes.service.AuthorizationURL(r.Context(), guid, r.URL.Query().Get("state"))
	if !ok {
		routes.notOAuth(w, guid)
		return
	}

	WriteJSONResponse(w, map[string]string{"url": u}, http.StatusOK)
}

// exchangeCode accepts the code as a form value or a query parameter
func (routes *DataSourceRoutes) exchangeCode(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "guid")

	code := strings.TrimSpace(r.FormValue("code"))
	if code == "" {
		WriteProblem(w, Problem{
			Title:    "Missing authorization code",
			Detail:   "The code parameter is required",
			Status:   http.StatusBadRequest,
			Instance: InstanceOAuthMissingCode,
		})
		return
	}

	tokens, ok, err := routes.service.ExchangeCode(r.Context(), code, guid)
	if err != nil {
		writeServiceError(w, r, err, dataSourceNotFound())
		return
	}
	if !ok {
		routes.notOAuth(w, guid)
		return
	}

	WriteJSONResponse(w, tokens, http.StatusOK)
}

// notOAuth distinguishes unknown sources from sources without OAuth
func (routes *DataSourceRoutes) notOAuth(w http.ResponseWriter, guid string) {
	if !routes.service.IsExistingSource(guid) {
		WriteProblem(w, dataSourceNotFound())
		return
	}
	WriteProblem(w, Problem{
		Title:    "Data source does not support OAuth",
		Detail:   "The data source lists public projects only",
		Status:   http.StatusNotFound,
		Instance: InstanceOAuthUnsupported,
	})
}

func dataSourceNotFound() Problem {
	return Problem{
		Title:    "Data source guid not found",
		Detail:   "Data source could not be found with specified data source guid",
		Status:   http.StatusNotFound,
		Instance: InstanceDataSourceNotFound,
	}
}
