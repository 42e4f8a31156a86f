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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. The process
// environment is exposed as the env object, so secrets are written as
// client_secret = env.GITHUB_CLIENT_SECRET.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclOAuth struct {
	ClientID     string   `hcl:"client_id"`
	ClientSecret string   `hcl:"client_secret,optional"`
	RedirectURL  string   `hcl:"redirect_url,optional"`
	Scopes       []string `hcl:"scopes,optional"`
	AuthURL      string   `hcl:"auth_url,optional"`
	TokenURL     string   `hcl:"token_url,optional"`
}

type hclSource struct {
	Name    string    `hcl:"name,label"`
	GUID    string    `hcl:"guid"`
	Type    string    `hcl:"type"`
	Kind    string    `hcl:"kind"`
	Icon    string    `hcl:"icon,optional"`
	BaseURL string    `hcl:"base_url,optional"`
	Owner   string    `hcl:"owner,optional"`
	Timeout string    `hcl:"timeout,optional"`
	Match   []string  `hcl:"match,optional"`
	Path    string    `hcl:"path,optional"`
	OAuth   *hclOAuth `hcl:"oauth,block"`
}

type hclConfig struct {
	Log *struct {
		Format string `hcl:"format,optional"`
	} `hcl:"log,block"`
	API *struct {
		Listen         string `hcl:"listen,optional"`
		SourceCheck    string `hcl:"source_check,optional"`
		RequestTimeout string `hcl:"request_timeout,optional"`
	} `hcl:"api,block"`
	Retry *struct {
		Strategy        string `hcl:"strategy,optional"`
		MaxTries        int    `hcl:"max_tries,optional"`
		InitialInterval string `hcl:"initial_interval,optional"`
		MaxInterval     string `hcl:"max_interval,optional"`
	} `hcl:"retry,block"`
	Sources []hclSource `hcl:"source,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if hclCfg.Log != nil {
		cfg.Log.Format = hclCfg.Log.Format
	}
	if hclCfg.API != nil {
		cfg.API = APIConfig{
			Listen:         hclCfg.API.Listen,
			SourceCheck:    hclCfg.API.SourceCheck,
			RequestTimeout: hclCfg.API.RequestTimeout,
		}
	}
	if hclCfg.Retry != nil {
		if hclCfg.Retry.MaxTries < 0 {
			return nil, errors.Errorf("retry.max_tries: must not be negative, got %d", hclCfg.Retry.MaxTries)
		}
		cfg.Retry = RetryConfig{
			Strategy:        hclCfg.Retry.Strategy,
			MaxTries:        uint(hclCfg.Retry.MaxTries),
			InitialInterval: hclCfg.Retry.InitialInterval,
			MaxInterval:     hclCfg.Retry.MaxInterval,
		}
	}

	for _, s := range hclCfg.Sources {
		src := SourceConfig{
			GUID:    s.GUID,
			Name:    s.Name,
			Type:    s.Type,
			Kind:    s.Kind,
			Icon:    s.Icon,
			BaseURL: s.BaseURL,
			Owner:   s.Owner,
			Timeout: s.Timeout,
			Match:   s.Match,
			Path:    s.Path,
		}
		if s.OAuth != nil {
			src.OAuth = &OAuthConfig{
				ClientID:     s.OAuth.ClientID,
				ClientSecret: s.OAuth.ClientSecret,
				RedirectURL:  s.OAuth.RedirectURL,
				Scopes:       s.OAuth.Scopes,
				AuthURL:      s.OAuth.AuthURL,
				TokenURL:     s.OAuth.TokenURL,
			}
		}
		cfg.Sources = append(cfg.Sources, src)
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
