package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/edvin/dbaccess/internal/catalog"
	"github.com/edvin/dbaccess/internal/model"
)

// fakeCatalog is an in-memory catalog.Catalog that honors the uniqueness and
// foreign key rules of the real schema. InTx restores a snapshot when fn fails.
type fakeCatalog struct {
	mu         sync.Mutex
	roles      map[string]model.Role
	privileges map[string]model.Privilege
	links      []model.RolePrivilege
	users      map[string]model.DatabaseUser
	userRoles  []model.DatabaseUserRole
	userPrivs  []model.UserSpecificPrivilege
	commits    int
	rollbacks  int
	fail       map[string]error
}

var _ catalog.Catalog = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		roles:      make(map[string]model.Role),
		privileges: make(map[string]model.Privilege),
		users:      make(map[string]model.DatabaseUser),
		fail:       make(map[string]error),
	}
}

func (f *fakeCatalog) injected(op string) error {
	return f.fail[op]
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
}

// ---------- seeding helpers ----------

func (f *fakeCatalog) addUser(id, username, host string) model.DatabaseUser {
	u := model.DatabaseUser{ID: id, Username: username, Host: host}
	f.users[id] = u
	return u
}

func (f *fakeCatalog) addRole(id, name string) {
	f.roles[id] = model.Role{ID: id, Name: name}
}

func (f *fakeCatalog) addPrivilege(p model.Privilege) {
	if p.Name == "" {
		p.Name = p.MySQLPrivilege
	}
	f.privileges[p.ID] = p
}

func (f *fakeCatalog) link(roleID string, privilegeIDs ...string) {
	for _, id := range privilegeIDs {
		f.links = append(f.links, model.RolePrivilege{RoleID: roleID, PrivilegeID: id})
	}
}

func (f *fakeCatalog) userRoleCount(dbUserID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.userRoles {
		if a.DBUserID == dbUserID {
			n++
		}
	}
	return n
}

// ---------- transactions ----------

type fakeSnapshot struct {
	roles      map[string]model.Role
	privileges map[string]model.Privilege
	links      []model.RolePrivilege
	users      map[string]model.DatabaseUser
	userRoles  []model.DatabaseUserRole
	userPrivs  []model.UserSpecificPrivilege
}

func (f *fakeCatalog) snapshot() fakeSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := fakeSnapshot{
		roles:      make(map[string]model.Role, len(f.roles)),
		privileges: make(map[string]model.Privilege, len(f.privileges)),
		users:      make(map[string]model.DatabaseUser, len(f.users)),
		links:      append([]model.RolePrivilege(nil), f.links...),
		userRoles:  append([]model.DatabaseUserRole(nil), f.userRoles...),
		userPrivs:  append([]model.UserSpecificPrivilege(nil), f.userPrivs...),
	}
	for k, v := range f.roles {
		s.roles[k] = v
	}
	for k, v := range f.privileges {
		s.privileges[k] = v
	}
	for k, v := range f.users {
		s.users[k] = v
	}
	return s
}

func (f *fakeCatalog) restore(s fakeSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles, f.privileges, f.users = s.roles, s.privileges, s.users
	f.links, f.userRoles, f.userPrivs = s.links, s.userRoles, s.userPrivs
}

func (f *fakeCatalog) InTx(ctx context.Context, fn func(catalog.Catalog) error) error {
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		f.mu.Lock()
		f.rollbacks++
		f.mu.Unlock()
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("Commit"); err != nil {
		f.roles, f.privileges, f.users = snap.roles, snap.privileges, snap.users
		f.links, f.userRoles, f.userPrivs = snap.links, snap.userRoles, snap.userPrivs
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// ---------- roles ----------

func (f *fakeCatalog) CreateRole(_ context.Context, role *model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == role.Name {
			return fmt.Errorf("insert role %q: %w", role.Name, model.ErrAlreadyExists)
		}
	}
	f.roles[role.ID] = *role
	return nil
}

func (f *fakeCatalog) GetRole(_ context.Context, id string) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return nil, notFound("role", id)
	}
	return &r, nil
}

func (f *fakeCatalog) GetRoleByName(_ context.Context, name string) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, notFound("role", name)
}

func (f *fakeCatalog) ListRoles(_ context.Context) ([]model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("ListRoles"); err != nil {
		return nil, err
	}
	out := make([]model.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) DeleteRole(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[id]; !ok {
		return notFound("role", id)
	}
	for _, a := range f.userRoles {
		if a.RoleID == id {
			return fmt.Errorf("delete role %s: %w", id, model.ErrInUse)
		}
	}
	delete(f.roles, id)
	kept := f.links[:0]
	for _, l := range f.links {
		if l.RoleID != id {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

// ---------- privileges ----------

func (f *fakeCatalog) CreatePrivilege(_ context.Context, p *model.Privilege) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.privileges {
		if existing.Name == p.Name {
			return fmt.Errorf("insert privilege %q: %w", p.Name, model.ErrAlreadyExists)
		}
	}
	f.privileges[p.ID] = *p
	return nil
}

func (f *fakeCatalog) GetPrivilege(_ context.Context, id string) (*model.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.privileges[id]
	if !ok {
		return nil, notFound("privilege", id)
	}
	return &p, nil
}

func (f *fakeCatalog) GetPrivilegeByName(_ context.Context, name string) (*model.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.privileges {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, notFound("privilege", name)
}

func (f *fakeCatalog) ListPrivileges(_ context.Context) ([]model.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Privilege, 0, len(f.privileges))
	for _, p := range f.privileges {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) DeletePrivilege(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.privileges[id]; !ok {
		return notFound("privilege", id)
	}
	for _, l := range f.links {
		if l.PrivilegeID == id {
			return fmt.Errorf("delete privilege %s: %w", id, model.ErrInUse)
		}
	}
	delete(f.privileges, id)
	return nil
}

func (f *fakeCatalog) AddRolePrivilege(_ context.Context, roleID, privilegeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.links {
		if l.RoleID == roleID && l.PrivilegeID == privilegeID {
			return false, nil
		}
	}
	f.links = append(f.links, model.RolePrivilege{RoleID: roleID, PrivilegeID: privilegeID})
	return true, nil
}

func (f *fakeCatalog) RemoveRolePrivilege(_ context.Context, roleID, privilegeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.links {
		if l.RoleID == roleID && l.PrivilegeID == privilegeID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return notFound("role privilege", roleID+"/"+privilegeID)
}

func (f *fakeCatalog) ListRolePrivileges(_ context.Context, roleID string) ([]model.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rolePrivilegesLocked(roleID), nil
}

func (f *fakeCatalog) rolePrivilegesLocked(roleID string) []model.Privilege {
	var out []model.Privilege
	for _, l := range f.links {
		if l.RoleID == roleID {
			out = append(out, f.privileges[l.PrivilegeID])
		}
	}
	return out
}

// ---------- tracked accounts ----------

func (f *fakeCatalog) CreateDatabaseUser(_ context.Context, u *model.DatabaseUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("CreateDatabaseUser"); err != nil {
		return err
	}
	for _, existing := range f.users {
		if existing.Username == u.Username && existing.Host == u.Host {
			return fmt.Errorf("insert database user %s: %w", u.Key(), model.ErrAlreadyExists)
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeCatalog) GetDatabaseUser(_ context.Context, id string) (*model.DatabaseUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, notFound("database user", id)
	}
	return &u, nil
}

func (f *fakeCatalog) FindDatabaseUser(_ context.Context, username, host string) (*model.DatabaseUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username && u.Host == host {
			return &u, nil
		}
	}
	return nil, notFound("database user", username+"@"+host)
}

func (f *fakeCatalog) ListDatabaseUsers(_ context.Context) ([]model.DatabaseUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.DatabaseUser, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (f *fakeCatalog) DeleteDatabaseUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return notFound("database user", id)
	}
	delete(f.users, id)
	roles := f.userRoles[:0]
	for _, a := range f.userRoles {
		if a.DBUserID != id {
			roles = append(roles, a)
		}
	}
	f.userRoles = roles
	privs := f.userPrivs[:0]
	for _, p := range f.userPrivs {
		if p.DBUserID != id {
			privs = append(privs, p)
		}
	}
	f.userPrivs = privs
	return nil
}

// ---------- assignments ----------

func (f *fakeCatalog) InsertUserRole(_ context.Context, a *model.DatabaseUserRole) (*model.DatabaseUserRole, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := a.Scope().Normalize()
	for _, existing := range f.userRoles {
		if existing.DBUserID == a.DBUserID && existing.RoleID == a.RoleID && existing.Scope() == s {
			row := existing
			return &row, false, nil
		}
	}
	row := *a
	row.ScopeType, row.TargetDatabase, row.TargetTable = s.Type, s.Database, s.Table
	f.userRoles = append(f.userRoles, row)
	return &row, true, nil
}

func (f *fakeCatalog) GetUserRole(_ context.Context, id string) (*model.DatabaseUserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.userRoles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, notFound("assignment", id)
}

func (f *fakeCatalog) ListUserRoles(_ context.Context, dbUserID string) ([]model.DatabaseUserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DatabaseUserRole
	for _, a := range f.userRoles {
		if a.DBUserID == dbUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DeleteUserRole(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.userRoles {
		if a.ID == id {
			f.userRoles = append(f.userRoles[:i], f.userRoles[i+1:]...)
			return nil
		}
	}
	return notFound("assignment", id)
}

// ---------- direct privileges ----------

func (f *fakeCatalog) InsertUserPrivilege(_ context.Context, p *model.UserSpecificPrivilege) (*model.UserSpecificPrivilege, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.userPrivs {
		if existing.DBUserID == p.DBUserID && existing.PrivilegeType == p.PrivilegeType &&
			existing.TargetDatabase == p.TargetDatabase && existing.TargetTable == p.TargetTable {
			row := existing
			return &row, false, nil
		}
	}
	f.userPrivs = append(f.userPrivs, *p)
	row := *p
	return &row, true, nil
}

func (f *fakeCatalog) GetUserPrivilege(_ context.Context, id string) (*model.UserSpecificPrivilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.userPrivs {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, notFound("direct privilege", id)
}

func (f *fakeCatalog) ListUserPrivileges(_ context.Context, dbUserID string) ([]model.UserSpecificPrivilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("ListUserPrivileges"); err != nil {
		return nil, err
	}
	var out []model.UserSpecificPrivilege
	for _, p := range f.userPrivs {
		if p.DBUserID == dbUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DeleteUserPrivilege(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.userPrivs {
		if p.ID == id {
			f.userPrivs = append(f.userPrivs[:i], f.userPrivs[i+1:]...)
			return nil
		}
	}
	return notFound("direct privilege", id)
}

// ---------- resolution ----------

func (f *fakeCatalog) ListUserRolePrivileges(_ context.Context, dbUserID string) ([]model.RolePrivilegeGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	type key struct {
		privilegeID string
		scope       model.Scope
	}
	index := make(map[key]int)
	var out []model.RolePrivilegeGrant
	for _, a := range f.userRoles {
		if a.DBUserID != dbUserID {
			continue
		}
		for _, p := range f.rolePrivilegesLocked(a.RoleID) {
			k := key{privilegeID: p.ID, scope: a.Scope()}
			if i, ok := index[k]; ok {
				out[i].Roles = append(out[i].Roles, f.roles[a.RoleID].Name)
				continue
			}
			index[k] = len(out)
			out = append(out, model.RolePrivilegeGrant{Privilege: p, Scope: a.Scope(), Roles: []string{f.roles[a.RoleID].Name}})
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListUserRolePrivilegeUnion(_ context.Context, dbUserID string) ([]model.Privilege, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []model.Privilege
	for _, a := range f.userRoles {
		if a.DBUserID != dbUserID {
			continue
		}
		for _, p := range f.rolePrivilegesLocked(a.RoleID) {
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
