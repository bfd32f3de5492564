package core

import (
	"github.com/rs/zerolog"

	"github.com/edvin/dbaccess/internal/cache"
	"github.com/edvin/dbaccess/internal/catalog"
)

type Services struct {
	Catalog      *CatalogService
	Resolver     *Resolver
	Synchronizer *Synchronizer
	Accounts     *AccountService
	Assignments  *AssignmentService
	DirectGrants *DirectGrantService
}

func NewServices(c catalog.Catalog, server NativeServer, listings *cache.Cache, defaultHost string, logger zerolog.Logger) *Services {
	sync := NewSynchronizer(c, server, logger)
	return &Services{
		Catalog:      NewCatalogService(c, listings, logger),
		Resolver:     NewResolver(c, logger),
		Synchronizer: sync,
		Accounts:     NewAccountService(c, server, defaultHost, logger),
		Assignments:  NewAssignmentService(c, sync, logger),
		DirectGrants: NewDirectGrantService(c, server, logger),
	}
}
