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
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// Problem instance identifiers. Consumers key on these, so they never change.
const (
	InstanceWizardInvalidURI      = "6D63D9FA-91D6-42D5-9ACB-461FBEB0D2ED"
	InstanceWizardEmptyShell      = "E56D89C5-8760-4503-839C-F695092C79BF"
	InstanceListEmptyGUID         = "D84D3112-855D-480A-BCDE-7CADAC2C6C55"
	InstanceListSourceCheck       = "4FB90F9A-8499-40F1-B7F3-3C2838BDB1D4"
	InstanceProjectEmptyGUID      = "019146D8-4162-43DD-8531-57DDD26E221C"
	InstanceProjectSourceCheck    = "4E3837F4-9D35-40C4-AB7C-D325FBA225E6"
	InstanceProjectNotFound       = "0D96A77A-D35F-487C-B552-BF6D1C0CDD42"
	InstanceWizardNotFound        = "6BF769AE-8189-4FEE-B8E9-B771168B2131"
	InstanceProjectInvalidID      = "7CCB8AFF-A1D9-43A4-848F-2B003622C821"
	InstanceDataSourceNotFound    = "4D204EC3-5E66-462F-A3D8-A1A6FDDDD37B"
	InstanceOAuthUnsupported      = "5976860B-9EBC-46EB-BE57-00162BB6202D"
	InstanceOAuthMissingCode      = "B31EC386-DFEB-496E-8B8F-95C54B97A464"
	InstanceOAuthExchangeRejected = "BCFF4977-4D44-48D3-A5FB-1BBB6A165867"
	InstanceSourceNotFound        = "5CEC361C-3D73-4E1E-8CCC-2508460F8137"
	InstanceCapabilityMismatch    = "145211E2-E59C-4F3B-B3BA-9C988AAF5E49"
	InstanceUpstreamAuth          = "BBCF29EB-53F8-496D-8AC5-FCD0E155D4E3"
	InstanceUpstreamUnavailable   = "391E8BC6-F66A-4B5D-8975-D3B5BBAB515F"
	InstanceInvalidRequest        = "7F5AF2E6-E8A1-4E62-88B7-1227FD3AC297"
	InstanceInternal              = "D3B49D57-CA42-4330-A371-1E93D355F2D7"
	InstanceProjectLookupNotFound = "1E48413A-7753-480B-86E3-2983DDB81C65"
)

// Problem is an RFC 7807 problem descriptor.
type Problem struct {
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Status   int    `json:"status"`
	Instance string `json:"instance"`
}

const problemContentType = "application/problem+json"

// WriteProblem writes p with its status code
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		http.Error(w, "Failed to encode problem response", http.StatusInternalServerError)
	}
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// problemFor maps a service error onto a response. projectNotFound is
// route specific so each route keeps its own instance identifier.
func problemFor(err error, projectNotFound Problem) Problem {
	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		return Problem{
			Title:    "Data source guid not found",
			Detail:   "Data source could not be found with specified data source guid",
			Status:   http.StatusNotFound,
			Instance: InstanceSourceNotFound,
		}
	case errors.Is(err, source.ErrProjectNotFound):
		return projectNotFound
	case errors.Is(err, source.ErrCapabilityMismatch):
		return Problem{
			Title:    "Access token does not match data source",
			Detail:   err.Error(),
			Status:   http.StatusBadRequest,
			Instance: InstanceCapabilityMismatch,
		}
	case errors.Is(err, source.ErrOAuthExchange):
		return Problem{
			Title:    "Authorization code rejected",
			Detail:   err.Error(),
			Status:   http.StatusBadRequest,
			Instance: InstanceOAuthExchangeRejected,
		}
	case errors.Is(err, source.ErrInvalidRequest):
		return Problem{
			Title:    "Invalid request",
			Detail:   err.Error(),
			Status:   http.StatusBadRequest,
			Instance: InstanceInvalidRequest,
		}
	case errors.Is(err, source.ErrUpstreamAuth):
		return Problem{
			Title:    "Access token rejected",
			Detail:   "The data source did not accept the access token",
			Status:   http.StatusUnauthorized,
			Instance: InstanceUpstreamAuth,
		}
	case errors.Is(err, source.ErrUpstream):
		return Problem{
			Title:    "Data source unavailable",
			Detail:   "The external data source could not be reached",
			Status:   http.StatusBadGateway,
			Instance: InstanceUpstreamUnavailable,
		}
	default:
		return Problem{
			Title:    "Internal server error",
			Status:   http.StatusInternalServerError,
			Instance: InstanceInternal,
		}
	}
}

// writeServiceError logs err and answers with the matching problem
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, projectNotFound Problem) {
	p := problemFor(err, projectNotFound)

	ev := zerolog.Ctx(r.Context()).Debug()
	if p.Status >= http.StatusInternalServerError {
		ev = zerolog.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", p.Status).Str("instance", p.Instance).Msg("request failed")

	WriteProblem(w, p)
}
