// Package config loads shopkeep's startup configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shopkeep/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. SHOPKEEP_API_URL, SHOPKEEP_LISTEN and SHOPKEEP_LOG_LEVEL override
//     whatever the file says
//
// Callers may load .env files first with LoadEnvFiles; variables that are
// already exported take precedence over the files.
//
// # Default Values
//
//   - Config file: ~/.config/shopkeep/config.toml
//   - API URL: https://api.escuelajs.co/api/v1/products
//   - Page size: 10
//   - Request timeout: 10s
//   - Log file: ~/.local/state/shopkeep/shopkeep.log
//   - Log level: info
//   - HTML view address: 127.0.0.1:8088
//   - Export directory: current directory
//
// # TOML Format
//
//	api_url = "http://localhost:3000/api/v1/products"
//	per_page = 20
//	request_timeout = "5s"
//	log_file = "~/.local/state/shopkeep/shopkeep.log"
//	log_level = "debug"
//	listen = "127.0.0.1:8088"
//	export_dir = "~/Downloads"
//
// All fields are optional. Tilde expansion is performed for log_file and
// export_dir.
//
// # Error Handling
//
// Load returns errors for unreadable or malformed files, unparsable
// durations and values that fail Validate. A missing file is not an error.
package config
