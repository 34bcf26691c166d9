// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Dice are configured in NdM notation
// ("2d6+1d8") in every source and resolved to side counts during loading.
package config
