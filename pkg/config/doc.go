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

/*
Package config loads and validates the projhub configuration.

	            +-------------+
	            |   Config    |
	            |  (sources)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | |  Parser | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Declares the data sources the service aggregates
- Selects log format, listen address and retry policy
- Keeps OAuth secrets out of the file via ${VAR} and env.VAR

🔄 Flow:
1. Loads a .env file next to the config, if present
2. Picks a parser by file extension and decodes strictly
3. Expands environment references
4. Validates and fills in defaults
5. Converts sources into source.Config values for source.Build

🔍 Example:

	cfg, err := config.Load(ctx, "projhub.yaml")
	if err != nil {
		return err
	}

	cfgs, err := cfg.SourceConfigs()
	if err != nil {
		return err
	}

	reg, err := source.Build(ctx, cfgs)
*/
package config
