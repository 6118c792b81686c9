package config

import (
	"github.com/spf13/viper"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// detectEnvironment prefers CI=true, then ENV, defaulting to development.
func detectEnvironment(v *viper.Viper) Environment {
	if v.GetBool("CI") {
		return CI
	}

	switch env := Environment(v.GetString("ENV")); env {
	case Production, Test, Development:
		return env
	default:
		return Development
	}
}

// IsProduction returns true for the production environment
func (e Environment) IsProduction() bool {
	return e == Production
}

// IsDevelopment returns true for the development environment
func (e Environment) IsDevelopment() bool {
	return e == Development
}
