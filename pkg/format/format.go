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

// Package format renders projects and data sources for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// Output selects how results are written.
type Output string

const (
	OutputTable Output = "table"
	OutputJSON  Output = "json"
)

// ParseOutput validates an --output flag value
func ParseOutput(s string) (Output, error) {
	switch Output(s) {
	case OutputTable, OutputJSON:
		return Output(s), nil
	default:
		return "", errors.Errorf("unknown output %q (want table or json)", s)
	}
}

// 🖨️ Printer writes results in the selected output
type Printer struct {
	w      io.Writer
	output Output
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, output Output) *Printer {
	return &Printer{w: w, output: output}
}

// 📂 Projects prints a project listing
func (p *Printer) Projects(projects []project.Project) error {
	if p.output == OutputJSON {
		return p.json(projects)
	}

	if len(projects) == 0 {
		_, err := fmt.Fprintln(p.w, "🤷 no projects")
		return err
	}

	data := pterm.TableData{{"ID", "NAME", "DESCRIPTION", "URI"}}
	for _, pr := range projects {
		data = append(data, []string{strconv.FormatInt(pr.ID, 10), pr.Name, pr.ShortDescription, pr.SourceURI})
	}
	return p.table(data)
}

// 🎯 Project prints a single project
func (p *Printer) Project(pr project.Project) error {
	if p.output == OutputJSON {
		return p.json(pr)
	}

	data := pterm.TableData{
		{"ID", strconv.FormatInt(pr.ID, 10)},
		{"NAME", pr.Name},
		{"URI", pr.SourceURI},
		{"DESCRIPTION", pr.Description},
	}
	s, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering project: %w", err)
	}
	_, err = fmt.Fprintln(p.w, s)
	return err
}

// 📚 Sources prints the registered data sources
func (p *Printer) Sources(sources []source.DataSource) error {
	if p.output == OutputJSON {
		return p.json(sources)
	}

	data := pterm.TableData{{"GUID", "NAME", "KIND", "TYPE", "OWNER"}}
	for _, ds := range sources {
		data = append(data, []string{ds.GUID, ds.Name, Kind(ds.Kind), ds.Type, ds.Owner})
	}
	return p.table(data)
}

// 🔐 Tokens prints the result of a code exchange
func (p *Printer) Tokens(tokens project.OAuthTokens) error {
	if p.output == OutputJSON {
		return p.json(tokens)
	}

	data := pterm.TableData{
		{"ACCESS TOKEN", tokens.AccessToken},
		{"TOKEN TYPE", tokens.TokenType},
	}
	if tokens.RefreshToken != "" {
		data = append(data, []string{"REFRESH TOKEN", tokens.RefreshToken})
	}
	if !tokens.Expiry.IsZero() {
		data = append(data, []string{"EXPIRES", tokens.Expiry.Format("2006-01-02 15:04:05 MST")})
	}
	s, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering tokens: %w", err)
	}
	_, err = fmt.Fprintln(p.w, s)
	return err
}

// 🎨 Kind colors a source kind
func Kind(k source.Kind) string {
	switch k {
	case source.KindAuthorized:
		return pterm.FgMagenta.Sprint(string(k))
	case source.KindPublic:
		return pterm.FgCyan.Sprint(string(k))
	default:
		return string(k)
	}
}

func (p *Printer) table(data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	_, err = fmt.Fprintln(p.w, s)
	return err
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("encoding json: %w", err)
	}
	return nil
}
