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
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/walteh/projhub/pkg/aggregate"
	"github.com/walteh/projhub/pkg/project"
)

// WizardRoutes serves the project import wizard
type WizardRoutes struct {
	service     Service
	sourceCheck SourceCheck
}

// WizardRouter creates the router mounted at /api/wizard
func WizardRouter(svc Service, check SourceCheck) http.Handler {
	routes := &WizardRoutes{service: svc, sourceCheck: check}

	r := chi.NewRouter()
	r.Get("/", routes.wizardInformation)
	r.Get("/dataSource", routes.projectsFromDataSource)
	r.Get("/dataSource/project", routes.projectFromDataSource)
	return r
}

// wizardInformation looks a project up by the URI it lives at
func (routes *WizardRoutes) wizardInformation(w http.ResponseWriter, r *http.Request) {
	uri, ok := parseSourceURI(query(r, "sourceURI", "sourceUri"))
	if !ok {
		WriteProblem(w, Problem{
			Title:    "Source uri is null or empty.",
			Detail:   "The incoming source uri is not valid.",
			Status:   http.StatusBadRequest,
			Instance: InstanceWizardInvalidURI,
		})
		return
	}

	p, err := routes.service.FetchProjectByURI(r.Context(), uri)
	if err != nil {
		writeServiceError(w, r, err, Problem{
			Title:    "Project not found.",
			Detail:   "No data source could resolve the incoming source uri.",
			Status:   http.StatusNotFound,
			Instance: InstanceWizardNotFound,
		})
		return
	}

	if p.IsEmptyShell() {
		WriteProblem(w, Problem{
			Title:    "Project not found.",
			Detail:   "The incoming source uri aims at a gitlab which is either not instantiated or is a group.",
			Status:   http.StatusBadRequest,
			Instance: InstanceWizardEmptyShell,
		})
		return
	}

	WriteJSONResponse(w, p, http.StatusOK)
}

// projectsFromDataSource lists every project of a data source
func (routes *WizardRoutes) projectsFromDataSource(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guid := strings.TrimSpace(q.Get("dataSourceGuid"))

	if guid == "" {
		WriteProblem(w, emptyGUIDProblem(InstanceListEmptyGUID))
		return
	}
	if routes.sourceCheck.rejects(routes.service.IsExistingSource(guid)) {
		WriteProblem(w, sourceCheckProblem(InstanceListSourceCheck))
		return
	}

	projects, err := routes.service.ListProjects(r.Context(), guid, q.Get("accessToken"), aggregate.WithOwner(q.Get("owner")))
	if err != nil {
		writeServiceError(w, r, err, Problem{
			Title:    "Project not found",
			Detail:   "The data source could not list its projects",
			Status:   http.StatusNotFound,
			Instance: InstanceProjectLookupNotFound,
		})
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}

	WriteJSONResponse(w, projects, http.StatusOK)
}

// projectFromDataSource returns one project of a data source by id
func (routes *WizardRoutes) projectFromDataSource(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guid := strings.TrimSpace(q.Get("dataSourceGuid"))

	if guid == "" {
		WriteProblem(w, emptyGUIDProblem(InstanceProjectEmptyGUID))
		return
	}
	if routes.sourceCheck.rejects(routes.service.IsExistingSource(guid)) {
		WriteProblem(w, sourceCheckProblem(InstanceProjectSourceCheck))
		return
	}

	id, err := strconv.ParseInt(q.Get("projectId"), 10, 64)
	if err != nil {
		WriteProblem(w, Problem{
			Title:    "Invalid project id",
			Detail:   "Project id must be an integer",
			Status:   http.StatusBadRequest,
			Instance: InstanceProjectInvalidID,
		})
		return
	}

	p, err := routes.service.GetProjectByGUID(r.Context(), guid, q.Get("accessToken"), id, aggregate.WithOwner(q.Get("owner")))
	if err != nil {
		writeServiceError(w, r, err, Problem{
			Title:    "Project not found",
			Detail:   "Project could not be found with specified project guid",
			Status:   http.StatusNotFound,
			Instance: InstanceProjectNotFound,
		})
		return
	}

	WriteJSONResponse(w, p, http.StatusOK)
}

func emptyGUIDProblem(instance string) Problem {
	return Problem{
		Title:    "Invalid data source guid",
		Detail:   "Data source guid can't be empty",
		Status:   http.StatusBadRequest,
		Instance: instance,
	}
}

func sourceCheckProblem(instance string) Problem {
	return Problem{
		Title:    "Data source guid not found",
		Detail:   "Data source could not be found with specified data source guid",
		Status:   http.StatusNotFound,
		Instance: instance,
	}
}

// parseSourceURI accepts absolute URIs with a host only
func parseSourceURI(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	uri, err := url.Parse(raw)
	if err != nil || !uri.IsAbs() || uri.Host == "" {
		return nil, false
	}
	return uri, true
}

// query returns the first non-empty value among names
func query(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}
