package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Seed is the reference data a fresh store starts with: the provisioned users
// and the dashboards they report against.
type Seed struct {
	Users      []SeedUser      `yaml:"users" validate:"dive"`
	Dashboards []SeedDashboard `yaml:"dashboards" validate:"dive"`
}

type SeedUser struct {
	Id           int64  `yaml:"id" validate:"required"`
	Email        string `yaml:"email" validate:"required,email"`
	PasswordHash string `yaml:"password_hash" validate:"required"`
	Role         string `yaml:"role" validate:"required,oneof=admin business"`
}

type SeedDashboard struct {
	Id   int64  `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
	Team string `yaml:"team" validate:"required"`
}

// LoadSeed reads a seed file. An empty path yields an empty seed.
func LoadSeed(seedPath string) (*Seed, error) {
	var seed Seed
	if seedPath == "" {
		return &seed, nil
	}
	if err := loadPath(seedPath, &seed); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&seed); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", seedPath, err)
	}
	return &seed, nil
}
