package core

import (
	"context"
	"sort"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
)

const allPrivileges = "ALL PRIVILEGES"

// grantSet holds the keywords a user still holds per native object, keyed by
// object and then keyword.
type grantSet map[string]map[string]bool

func (g grantSet) add(keyword, object string) {
	if g[object] == nil {
		g[object] = make(map[string]bool)
	}
	g[object][keyword] = true
}

// covers reports whether keyword on object is still held, either as is or
// through ALL PRIVILEGES on the same object.
func (g grantSet) covers(keyword, object string) bool {
	held := g[object]
	return held[keyword] || held[allPrivileges]
}

// narrower returns the keywords other than ALL PRIVILEGES held on object.
// Revoking ALL PRIVILEGES on object removes them too.
func (g grantSet) narrower(object string) []string {
	var out []string
	for keyword := range g[object] {
		if keyword != allPrivileges {
			out = append(out, keyword)
		}
	}
	sort.Strings(out)
	return out
}

// heldGrants collects the grants the catalog says dbUserID holds, leaving out
// the assignment exceptAssignment and the direct privilege exceptDirect.
func heldGrants(ctx context.Context, c catalog.Catalog, dbUserID, exceptAssignment, exceptDirect string) (grantSet, error) {
	held := make(grantSet)

	assignments, err := c.ListUserRoles(ctx, dbUserID)
	if err != nil {
		return nil, err
	}
	byRole := make(map[string][]model.Privilege)
	for _, a := range assignments {
		if a.ID == exceptAssignment {
			continue
		}
		privs, ok := byRole[a.RoleID]
		if !ok {
			if privs, err = c.ListRolePrivileges(ctx, a.RoleID); err != nil {
				return nil, err
			}
			byRole[a.RoleID] = privs
		}
		for i := range privs {
			keyword := NativeKeyword(privs[i].MySQLPrivilege)
			if validKeyword(keyword) != nil {
				continue
			}
			object, _, err := ResolveScopeStatement(keyword, effectiveScope(&privs[i], a.Scope()))
			if err != nil {
				continue
			}
			held.add(keyword, object)
		}
	}

	direct, err := c.ListUserPrivileges(ctx, dbUserID)
	if err != nil {
		return nil, err
	}
	for i := range direct {
		if direct[i].ID == exceptDirect {
			continue
		}
		keyword := NativeKeyword(direct[i].PrivilegeType)
		if validKeyword(keyword) != nil {
			continue
		}
		object, _, err := ResolveScopeStatement(keyword, direct[i].Scope())
		if err != nil {
			continue
		}
		held.add(keyword, object)
	}
	return held, nil
}

// restoreAfterRevoke lists the grants to reissue after revoking from the user:
// a revoked ALL PRIVILEGES also strips every narrower keyword still held on
// the same object.
func restoreAfterRevoke(revoked []nativeStatement, held grantSet) []nativeStatement {
	var restore []nativeStatement
	for _, n := range revoked {
		if n.keyword != allPrivileges {
			continue
		}
		for _, keyword := range held.narrower(n.object) {
			restore = append(restore, nativeStatement{privilege: keyword, keyword: keyword, object: n.object})
		}
	}
	return restore
}
