package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/dbaccess/internal/model"
)

func TestNativeKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT", "SELECT"},
		{"select", "SELECT"},
		{"ALL", "ALL PRIVILEGES"},
		{"all privileges", "ALL PRIVILEGES"},
		{"ALL_PRIVILEGES", "ALL PRIVILEGES"},
		{"show_databases", "SHOW DATABASES"},
		{"create user", "CREATE USER"},
		{"DROP USER", "DROP USER"},
		{"DROP", "DROP"},
		{"grant  option", "GRANT OPTION"},
		{"  lock tables ", "LOCK TABLES"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NativeKeyword(tt.in))
		})
	}
}

func TestIsGlobalOnly(t *testing.T) {
	for _, k := range []string{"CREATE USER", "DROP USER", "RELOAD", "PROCESS", "SUPER", "SHUTDOWN",
		"REPLICATION SLAVE", "REPLICATION CLIENT", "FILE"} {
		assert.True(t, IsGlobalOnly(k), k)
	}
	for _, k := range []string{"SELECT", "DROP", "ALL PRIVILEGES", "SHOW DATABASES"} {
		assert.False(t, IsGlobalOnly(k), k)
	}
}

func TestResolveScopeStatement(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		scope   model.Scope
		want    string
		widened bool
	}{
		{"global", "SELECT", model.GlobalScope(), "*.*", false},
		{"database", "SELECT", model.DatabaseScope("sales"), "`sales`.*", false},
		{"table", "SELECT", model.TableScope("sales", "orders"), "`sales`.`orders`", false},
		{"quoted identifier", "SELECT", model.TableScope("we`ird", "t"), "`we``ird`.`t`", false},
		{"global-only at database", "CREATE USER", model.DatabaseScope("sales"), "*.*", true},
		{"global-only at table", "RELOAD", model.TableScope("sales", "orders"), "*.*", true},
		{"global-only at global", "PROCESS", model.GlobalScope(), "*.*", false},
		{"global-only with broken scope", "FILE", model.Scope{Type: model.ScopeDatabase}, "*.*", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			object, widened, err := ResolveScopeStatement(tt.keyword, tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, object)
			assert.Equal(t, tt.widened, widened)
		})
	}
}

func TestResolveScopeStatement_InvalidCombinations(t *testing.T) {
	for _, scope := range []model.Scope{
		{Type: model.ScopeDatabase},
		{Type: model.ScopeDatabase, Database: "null"},
		{Type: model.ScopeTable, Database: "sales"},
		{Type: model.ScopeTable, Database: "sales", Table: "NULL"},
		{Type: "SCHEMA", Database: "sales"},
	} {
		_, _, err := ResolveScopeStatement("SELECT", scope)
		assert.ErrorIs(t, err, model.ErrInvalidScope, "%+v", scope)
	}
}

func TestEffectiveScope(t *testing.T) {
	pinnedDB := &model.Privilege{TargetDatabase: "reports"}
	pinnedTable := &model.Privilege{TargetDatabase: "reports", TargetTable: "daily"}
	global := &model.Privilege{IsGlobal: true, TargetDatabase: "reports"}
	plain := &model.Privilege{TargetDatabase: "null"}

	assert.Equal(t, model.DatabaseScope("reports"), effectiveScope(pinnedDB, model.GlobalScope()))
	assert.Equal(t, model.TableScope("reports", "daily"), effectiveScope(pinnedTable, model.GlobalScope()))
	assert.Equal(t, model.DatabaseScope("shop"), effectiveScope(pinnedDB, model.DatabaseScope("shop")))
	assert.Equal(t, model.GlobalScope(), effectiveScope(global, model.TableScope("shop", "orders")))
	assert.Equal(t, model.GlobalScope(), effectiveScope(plain, model.GlobalScope()))
}

func TestBulkObject(t *testing.T) {
	assert.Equal(t, "*.*", bulkObject("SELECT", "*"))
	assert.Equal(t, "*.*", bulkObject("SELECT", ""))
	assert.Equal(t, "`shop`.*", bulkObject("SELECT", "shop"))
	assert.Equal(t, "`shop`.*", bulkObject("ALL PRIVILEGES", "shop"))
	assert.Equal(t, "*.*", bulkObject("RELOAD", "shop"))
}

func TestValidKeyword(t *testing.T) {
	assert.NoError(t, validKeyword("SELECT"))
	assert.NoError(t, validKeyword("ALL PRIVILEGES"))
	assert.ErrorIs(t, validKeyword(""), model.ErrInvalidPrivilege)
	assert.ErrorIs(t, validKeyword("SELECT; DROP DATABASE X"), model.ErrInvalidPrivilege)
	assert.ErrorIs(t, validKeyword("SELECT(ID)"), model.ErrInvalidPrivilege)
}
