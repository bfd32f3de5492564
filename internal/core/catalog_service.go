package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/cache"
	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
	"github.com/edvin/dbaccess/internal/platform"
)

// Cached catalog operations.
const (
	opListRoles          = "catalog.roles"
	opListPrivileges     = "catalog.privileges"
	opListRolePrivileges = "catalog.role_privileges"
)

// CatalogService manages role and privilege definitions. Listings are served
// from a TTL cache that every mutation invalidates.
type CatalogService struct {
	catalog catalog.Catalog
	cache   *cache.Cache
	logger  zerolog.Logger
}

func NewCatalogService(c catalog.Catalog, listings *cache.Cache, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		catalog: c,
		cache:   listings,
		logger:  logger.With().Str("component", "catalog").Logger(),
	}
}

func (s *CatalogService) CreateRole(ctx context.Context, name, description string, isDatabaseRole bool) (*model.Role, error) {
	role := &model.Role{
		ID:             platform.NewID(),
		Name:           strings.TrimSpace(name),
		Description:    description,
		IsDatabaseRole: isDatabaseRole,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.catalog.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	s.cache.Invalidate(opListRoles)
	return role, nil
}

func (s *CatalogService) GetRole(ctx context.Context, id string) (*model.Role, error) {
	return s.catalog.GetRole(ctx, id)
}

func (s *CatalogService) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return s.catalog.GetRoleByName(ctx, name)
}

func (s *CatalogService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return cache.Load(ctx, s.cache, cache.Key(opListRoles), s.catalog.ListRoles)
}

func (s *CatalogService) DeleteRole(ctx context.Context, id string) error {
	if err := s.catalog.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(opListRoles, opListRolePrivileges)
	return nil
}

func (s *CatalogService) CreatePrivilege(ctx context.Context, p *model.Privilege) (*model.Privilege, error) {
	created := *p
	created.ID = platform.NewID()
	created.Name = strings.TrimSpace(p.Name)
	created.PrivilegeType = strings.ToUpper(strings.TrimSpace(p.PrivilegeType))
	created.MySQLPrivilege = NativeKeyword(p.MySQLPrivilege)
	created.TargetDatabase = model.CleanTarget(p.TargetDatabase)
	created.TargetTable = model.CleanTarget(p.TargetTable)
	created.CreatedAt = time.Now().UTC()
	if created.MySQLPrivilege != "" {
		if err := validKeyword(created.MySQLPrivilege); err != nil {
			return nil, err
		}
	}

	if err := s.catalog.CreatePrivilege(ctx, &created); err != nil {
		return nil, err
	}
	s.cache.Invalidate(opListPrivileges)
	return &created, nil
}

func (s *CatalogService) GetPrivilege(ctx context.Context, id string) (*model.Privilege, error) {
	return s.catalog.GetPrivilege(ctx, id)
}

func (s *CatalogService) GetPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error) {
	return s.catalog.GetPrivilegeByName(ctx, name)
}

func (s *CatalogService) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	return cache.Load(ctx, s.cache, cache.Key(opListPrivileges), s.catalog.ListPrivileges)
}

func (s *CatalogService) DeletePrivilege(ctx context.Context, id string) error {
	if err := s.catalog.DeletePrivilege(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(opListPrivileges, opListRolePrivileges)
	return nil
}

// AddRolePrivilege links a privilege to a role. created is false when the
// link already existed. Existing assignments are not re-applied; use the
// full-resync path for that.
func (s *CatalogService) AddRolePrivilege(ctx context.Context, roleID, privilegeID string) (bool, error) {
	if _, err := s.catalog.GetRole(ctx, roleID); err != nil {
		return false, err
	}
	if _, err := s.catalog.GetPrivilege(ctx, privilegeID); err != nil {
		return false, err
	}
	created, err := s.catalog.AddRolePrivilege(ctx, roleID, privilegeID)
	if err != nil {
		return false, err
	}
	s.cache.Invalidate(opListRolePrivileges)
	return created, nil
}

func (s *CatalogService) RemoveRolePrivilege(ctx context.Context, roleID, privilegeID string) error {
	if err := s.catalog.RemoveRolePrivilege(ctx, roleID, privilegeID); err != nil {
		return err
	}
	s.cache.Invalidate(opListRolePrivileges)
	return nil
}

func (s *CatalogService) ListRolePrivileges(ctx context.Context, roleID string) ([]model.Privilege, error) {
	if _, err := s.catalog.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	return cache.Load(ctx, s.cache, cache.Key(opListRolePrivileges, roleID), func(ctx context.Context) ([]model.Privilege, error) {
		return s.catalog.ListRolePrivileges(ctx, roleID)
	})
}
