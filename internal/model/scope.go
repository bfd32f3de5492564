package model

import (
	"fmt"
	"strings"
)

// Scope types for role assignments.
const (
	ScopeGlobal   = "GLOBAL"
	ScopeDatabase = "DATABASE"
	ScopeTable    = "TABLE"
)

// Scope is the breadth at which a role assignment applies.
type Scope struct {
	Type     string `json:"scope_type"`
	Database string `json:"target_database,omitempty"`
	Table    string `json:"target_table,omitempty"`
}

// GlobalScope returns the server-wide scope.
func GlobalScope() Scope {
	return Scope{Type: ScopeGlobal}
}

// DatabaseScope returns a scope covering every table of one database.
func DatabaseScope(database string) Scope {
	return Scope{Type: ScopeDatabase, Database: database}
}

// TableScope returns a scope covering a single table.
func TableScope(database, table string) Scope {
	return Scope{Type: ScopeTable, Database: database, Table: table}
}

// CleanTarget trims a target name and treats the literal string "null" as absent.
func CleanTarget(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// Normalize upper-cases the scope type, cleans both targets and drops targets
// the scope type does not use.
func (s Scope) Normalize() Scope {
	n := Scope{
		Type:     strings.ToUpper(strings.TrimSpace(s.Type)),
		Database: CleanTarget(s.Database),
		Table:    CleanTarget(s.Table),
	}
	switch n.Type {
	case ScopeGlobal:
		n.Database, n.Table = "", ""
	case ScopeDatabase:
		n.Table = ""
	}
	return n
}

// Validate reports ErrInvalidScope when the scope cannot name a native object.
func (s Scope) Validate() error {
	n := s.Normalize()
	switch n.Type {
	case ScopeGlobal:
		return nil
	case ScopeDatabase:
		if n.Database == "" {
			return fmt.Errorf("%w: DATABASE scope requires target_database", ErrInvalidScope)
		}
		return nil
	case ScopeTable:
		if n.Database == "" || n.Table == "" {
			return fmt.Errorf("%w: TABLE scope requires target_database and target_table", ErrInvalidScope)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown scope type %q", ErrInvalidScope, s.Type)
	}
}

func (s Scope) String() string {
	switch s.Type {
	case ScopeDatabase:
		return s.Type + ":" + s.Database
	case ScopeTable:
		return s.Type + ":" + s.Database + "." + s.Table
	}
	return s.Type
}
