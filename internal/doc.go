// Package internal contains the implementation packages behind the
// pagebuilder CLI.
//
// # Package Organization
//
//   - element: the page element model, patches, IDs and the JSON/YAML wire shape
//   - store: the ordered, mutex-guarded document with change notifications
//   - catalog: built-in page templates and the element palette
//   - generator: standalone HTML export and its outline parser
//   - editor: the server-rendered control panel, render surface and mode
//   - server: HTTP routes, the editor JSON API and origin checks
//   - websocket: the hub that pushes change notifications to open tabs
//   - watcher: debounced file watching for export --watch
//   - config: Viper-backed configuration with validation and live reload
//   - validation: checks for URLs, origins, hosts and file names
//   - logging: structured logging on log/slog
//   - errors: categorized errors with codes and HTTP status mapping
//   - version: build identity
//
// # Data Flow
//
// Editor API calls mutate the store. The store publishes an event for every
// mutation; the server forwards each one to the websocket hub, and every
// open tab re-fetches the surface. Export reads a snapshot of the store, or
// a template or element file when run from the CLI, and hands it to the
// generator.
//
// # Testing
//
// Unit tests use testify. Property tests use gopter and are behind the
// "property" build tag:
//
//	go test -tags property ./...
package internal
