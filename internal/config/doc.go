// Package config loads Shelf's settings.
//
// # Configuration Discovery
//
// Load resolves the config file in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// After the file is applied, a .env file in the working directory is loaded
// (without replacing variables already set) and the SHELF_* variables
// override the matching keys.
//
// # TOML Format
//
//	api_url = "https://fakestoreapi.com"
//	page_size = 6
//	request_timeout = "10s"
//	requests_per_second = 0
//	log_file = "~/.local/state/shelf/shelf.log"
//	log_level = "info"
//	prefs_path = "~/.config/shelf/prefs.toml"
//	listen = "127.0.0.1:8080"
//	refresh_interval = "5m"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl = "10m"
//
// Durations use time.ParseDuration syntax. An empty request_timeout means
// no timeout, an empty refresh_interval disables the server's background
// catalog refresh, and an empty redis_url keeps the product cache in memory.
//
// # Path Expansion
//
// Paths starting with ~ are expanded to the user's home directory and then
// made absolute.
package config
