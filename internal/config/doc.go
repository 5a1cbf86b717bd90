// Package config loads the pipeline configuration from defaults, an
// optional YAML file, and LABOR_-prefixed environment variables, in
// increasing order of precedence.
package config
