// Package seed loads role and privilege definitions from a YAML file into the
// catalog. Seeding is repeatable: entries that already exist by name are kept.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/edvin/dbaccess/internal/model"
)

// Config is the seed file layout.
type Config struct {
	Privileges []PrivilegeSeed `yaml:"privileges"`
	Roles      []RoleSeed      `yaml:"roles"`
}

type PrivilegeSeed struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Type           string `yaml:"type"`
	MySQLPrivilege string `yaml:"mysql_privilege"`
	TargetDatabase string `yaml:"target_database"`
	TargetTable    string `yaml:"target_table"`
	Global         bool   `yaml:"global"`
}

type RoleSeed struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	DatabaseRole bool     `yaml:"database_role"`
	Privileges   []string `yaml:"privileges"`
}

// Catalog is the part of the catalog service seeding needs.
type Catalog interface {
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	CreateRole(ctx context.Context, name, description string, isDatabaseRole bool) (*model.Role, error)
	GetPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error)
	CreatePrivilege(ctx context.Context, p *model.Privilege) (*model.Privilege, error)
	AddRolePrivilege(ctx context.Context, roleID, privilegeID string) (bool, error)
}

// Result counts what a seed run changed.
type Result struct {
	PrivilegesCreated int `json:"privileges_created"`
	RolesCreated      int `json:"roles_created"`
	LinksCreated      int `json:"links_created"`
}

// Load reads and parses a seed file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	for i, p := range c.Privileges {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("privileges[%d]: name is required", i))
			continue
		}
		if !model.ValidPrivilegeType(p.typeOrDefault()) {
			errs = append(errs, fmt.Errorf("privilege %q: unknown type %q", p.Name, p.Type))
		}
	}
	for i, r := range c.Roles {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("roles[%d]: name is required", i))
		}
	}
	return errors.Join(errs...)
}

func (p PrivilegeSeed) typeOrDefault() string {
	if p.Type == "" {
		return model.PrivilegeTypeDatabase
	}
	return p.Type
}

// Apply creates missing privileges and roles and links them. Role privileges
// may name privileges defined in the file or already present in the catalog.
func Apply(ctx context.Context, c Catalog, cfg *Config, logger zerolog.Logger) (*Result, error) {
	res := &Result{}
	privilegeIDs := make(map[string]string)

	for _, ps := range cfg.Privileges {
		existing, err := c.GetPrivilegeByName(ctx, ps.Name)
		if err == nil {
			logger.Info().Str("privilege", ps.Name).Str("id", existing.ID).Msg("privilege exists, skipping")
			privilegeIDs[ps.Name] = existing.ID
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return res, fmt.Errorf("look up privilege %q: %w", ps.Name, err)
		}

		created, err := c.CreatePrivilege(ctx, &model.Privilege{
			Name:           ps.Name,
			Description:    ps.Description,
			PrivilegeType:  ps.typeOrDefault(),
			MySQLPrivilege: ps.MySQLPrivilege,
			TargetDatabase: ps.TargetDatabase,
			TargetTable:    ps.TargetTable,
			IsGlobal:       ps.Global,
		})
		if err != nil {
			return res, fmt.Errorf("create privilege %q: %w", ps.Name, err)
		}
		privilegeIDs[ps.Name] = created.ID
		res.PrivilegesCreated++
		logger.Info().Str("privilege", ps.Name).Str("id", created.ID).Msg("privilege created")
	}

	for _, rs := range cfg.Roles {
		role, err := c.GetRoleByName(ctx, rs.Name)
		switch {
		case err == nil:
			logger.Info().Str("role", rs.Name).Str("id", role.ID).Msg("role exists, skipping")
		case errors.Is(err, model.ErrNotFound):
			role, err = c.CreateRole(ctx, rs.Name, rs.Description, rs.DatabaseRole)
			if err != nil {
				return res, fmt.Errorf("create role %q: %w", rs.Name, err)
			}
			res.RolesCreated++
			logger.Info().Str("role", rs.Name).Str("id", role.ID).Msg("role created")
		default:
			return res, fmt.Errorf("look up role %q: %w", rs.Name, err)
		}

		for _, name := range rs.Privileges {
			id, ok := privilegeIDs[name]
			if !ok {
				p, err := c.GetPrivilegeByName(ctx, name)
				if err != nil {
					return res, fmt.Errorf("role %q: privilege %q: %w", rs.Name, name, err)
				}
				id = p.ID
				privilegeIDs[name] = id
			}
			linked, err := c.AddRolePrivilege(ctx, role.ID, id)
			if err != nil {
				return res, fmt.Errorf("link privilege %q to role %q: %w", name, rs.Name, err)
			}
			if linked {
				res.LinksCreated++
			}
		}
	}
	return res, nil
}
