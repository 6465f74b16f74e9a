/*
Package config loads beacon settings from YAML or JSON files.

# Overview

Files are decoded into a map and wrapped in Config, whose typed accessors
return defaults for missing keys or mismatched types. Load turns a file into
Settings, the typed view used by the tracker and the CLI.

# File Format

	sender:
	  timeout: 5s
	  user_agent: beacon/1.0
	  max_in_flight: 8
	macros:
	  custom_error_code: false
	  variables:
	    ASSETURI: https://cdn.example/ad.mp4
	journal:
	  path: beacons.db
	log:
	  level: info
	  format: text

Every key is optional.

# Type Coercion

Duration accepts "30s"-style strings, or numbers interpreted as seconds.
Int accepts whole floats, which is how JSON numbers arrive.
*/
package config
