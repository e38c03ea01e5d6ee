// Package app is the composition root of Shelf.
//
// # Overview
//
// Run and Serve load the configuration, open the log file, build the catalog
// client and hand everything to one of the two presentation surfaces:
//
//	Run()
//	  ├─> config.Load()          config file, .env, SHELF_* variables
//	  ├─> openLog()              slog text handler on the log file
//	  ├─> catalog.NewClient()    timeout, pacing, telemetry
//	  ├─> openCache()            Redis when configured, memory otherwise
//	  ├─> prefs.NewDarkMode()    file storage, applies the UI theme
//	  ├─> state.NewCoordinator()
//	  └─> ui.Run()               blocks until quit
//
//	Serve()
//	  ├─> config.Load(), openLog() (stderr and file), catalog.NewClient()
//	  ├─> StartPoller()          only when refresh_interval > 0
//	  ├─> server.New()
//	  └─> http.Server            shut down when the context ends
//
// # Catalog refresh
//
// With a refresh interval configured, Serve keeps a state.CatalogStore
// filled by a background poller. Each tick fetches every product and the
// category list. A failed tick keeps the previous catalog and bumps the
// failure counter; after two consecutive failures /healthz reports the
// catalog as stale.
//
// # Error Handling
//
// Fatal (returned): unreadable or invalid config, log file that cannot be
// opened, bad API URL, unreachable Redis cache, listener failure.
//
// Recoverable (logged): refresh failures, an unusable preferences file
// (dark mode then lasts for the session only).
package app
