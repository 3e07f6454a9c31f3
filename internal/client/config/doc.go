// Package config loads runtime configuration for finmate.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the finance backend
//	-s string   path of the local session database
//	-l string   listen address of the view server
//	-t int      backend request timeout in seconds (0 = none)
//	-log string log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "base_url": "http://127.0.0.1:8000",
//	  "storage_path": "finmate.db",
//	  "listen_addr": "127.0.0.1:5173",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
//
// Empty JSON fields leave the previous value untouched.
package config
