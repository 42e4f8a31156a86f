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
Package source maps data source GUIDs to the adaptees that talk to external
code hosts.

	+------------+   guid    +----------+  Entry   +------------------+
	| aggregate  | --------> | Registry | -------> | PublicSource     |
	|  Service   |           +----------+          | AuthorizedSource |
	+------------+                                 | URIResolver      |
	                                               +------------------+

🎯 Purpose:
- Owns the immutable guid -> adaptee table built at startup
- Declares what each adaptee can do through explicit capability fields
- Defines the error taxonomy shared by every adaptee

🤝 Capabilities:
- PublicSource: lists projects without credentials, given an owner hint
- AuthorizedSource: builds the OAuth URL, exchanges codes, lists with a token
- URIResolver: turns a project URI into a Project (wizard lookups)

📝 Kinds:
A DataSource is either public or authorized. The registry narrows the
adaptee's declared capabilities to the configured kind, so a public source
never sees an access token and an authorized source is never listed
anonymously.

🔍 Example:

	entry, ok := registry.Resolve(guid)
	if !ok {
		return source.ErrSourceNotFound
	}

	pub, ok := entry.Public()
	if !ok {
		return source.ErrCapabilityMismatch
	}

	projects, err := pub.ListPublicProjects(ctx, "walteh")
*/
package source
