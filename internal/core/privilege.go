package core

import (
	"fmt"
	"strings"

	"github.com/edvin/dbaccess/internal/model"
	"github.com/edvin/dbaccess/internal/native"
)

// globalOnly lists keywords the server only accepts at *.*.
var globalOnly = map[string]bool{
	"CREATE USER":        true,
	"DROP USER":          true,
	"RELOAD":             true,
	"PROCESS":            true,
	"SUPER":              true,
	"SHUTDOWN":           true,
	"REPLICATION SLAVE":  true,
	"REPLICATION CLIENT": true,
	"FILE":               true,
}

// keywordAliases maps normalized privilege names onto native keywords. DROP
// USER stays DROP USER; it is never folded into the table-level DROP.
var keywordAliases = map[string]string{
	"ALL":            "ALL PRIVILEGES",
	"ALL PRIVILEGES": "ALL PRIVILEGES",
	"SHOW DATABASES": "SHOW DATABASES",
	"CREATE USER":    "CREATE USER",
	"DROP USER":      "DROP USER",
	"GRANT OPTION":   "GRANT OPTION",
}

// NativeKeyword normalizes a privilege name into the keyword used in GRANT and
// REVOKE. Case is folded, underscores become spaces and runs of whitespace
// collapse. Names outside the alias table pass through in that normalized form.
func NativeKeyword(name string) string {
	n := strings.Join(strings.Fields(strings.ReplaceAll(strings.ToUpper(name), "_", " ")), " ")
	if alias, ok := keywordAliases[n]; ok {
		return alias
	}
	return n
}

// IsGlobalOnly reports whether keyword can only be granted on *.*.
func IsGlobalOnly(keyword string) bool {
	return globalOnly[keyword]
}

// ResolveScopeStatement maps a keyword and scope onto the native object
// specifier. Global-only keywords always resolve to *.*; widened reports that
// a narrower scope was requested for one of them.
func ResolveScopeStatement(keyword string, scope model.Scope) (object string, widened bool, err error) {
	s := scope.Normalize()
	if IsGlobalOnly(keyword) {
		return native.GlobalObject, s.Type != model.ScopeGlobal, nil
	}
	if err := s.Validate(); err != nil {
		return "", false, err
	}
	switch s.Type {
	case model.ScopeDatabase:
		return native.DatabaseObject(s.Database), false, nil
	case model.ScopeTable:
		return native.TableObject(s.Database, s.Table), false, nil
	}
	return native.GlobalObject, false, nil
}

// effectiveScope applies a privilege's pinning to the scope it was assigned
// at. is_global always wins; a pinned target applies only to GLOBAL
// assignments, since an explicit narrower assignment scope takes precedence.
func effectiveScope(p *model.Privilege, assigned model.Scope) model.Scope {
	if p.IsGlobal {
		return model.GlobalScope()
	}
	assigned = assigned.Normalize()
	if assigned.Type != model.ScopeGlobal {
		return assigned
	}
	db := model.CleanTarget(p.TargetDatabase)
	if db == "" {
		return assigned
	}
	if table := model.CleanTarget(p.TargetTable); table != "" {
		return model.TableScope(db, table)
	}
	return model.DatabaseScope(db)
}

// bulkObject is the object the full-resync path grants keyword on.
func bulkObject(keyword, databaseName string) string {
	databaseName = strings.TrimSpace(databaseName)
	if IsGlobalOnly(keyword) || databaseName == "" || databaseName == "*" {
		return native.GlobalObject
	}
	return native.DatabaseObject(databaseName)
}

// validKeyword returns a descriptive error for keywords that must not reach
// the server.
func validKeyword(keyword string) error {
	if keyword == "" {
		return fmt.Errorf("%w: no native keyword configured", model.ErrInvalidPrivilege)
	}
	if !native.ValidKeyword(keyword) {
		return fmt.Errorf("%w: %q", model.ErrInvalidPrivilege, keyword)
	}
	return nil
}
