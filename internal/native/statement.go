package native

import "fmt"

// Statement kinds, used for logging and metrics.
const (
	KindGrant      = "GRANT"
	KindRevoke     = "REVOKE"
	KindCreateUser = "CREATE USER"
	KindDropUser   = "DROP USER"
	KindFlush      = "FLUSH"
)

const flushPrivilegesStmt = "FLUSH PRIVILEGES"

const listAccountsQuery = "SELECT User, Host FROM mysql.user"

func grantStmt(keyword, object string, a Account) string {
	return fmt.Sprintf("GRANT %s ON %s TO %s", keyword, object, a)
}

func revokeStmt(keyword, object string, a Account) string {
	return fmt.Sprintf("REVOKE %s ON %s FROM %s", keyword, object, a)
}

func createUserStmt(a Account, password string) string {
	return fmt.Sprintf("CREATE USER %s IDENTIFIED BY %s", a, QuoteString(password))
}

// createUserDisplay is the loggable form of a CREATE USER statement.
func createUserDisplay(a Account) string {
	return fmt.Sprintf("CREATE USER %s IDENTIFIED BY '***'", a)
}

func dropUserStmt(a Account) string {
	return fmt.Sprintf("DROP USER %s", a)
}

func showGrantsStmt(a Account) string {
	return fmt.Sprintf("SHOW GRANTS FOR %s", a)
}
