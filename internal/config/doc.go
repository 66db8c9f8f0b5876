// Package config defines the gateway configuration model and provides YAML
// loading with environment variable expansion, validation, and hot reload.
package config
