package native

import (
	"regexp"
	"strings"
)

// GlobalObject is the object specifier for server-wide grants.
const GlobalObject = "*.*"

// keywordRe matches native privilege keywords: upper-case words separated by
// single spaces. Keywords are interpolated into statement text, so anything
// else is refused.
var keywordRe = regexp.MustCompile(`^[A-Z]+( [A-Z]+)*$`)

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// QuoteIdent backtick-quotes a database or table identifier.
func QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString single-quotes a string literal such as a user name, host or password.
func QuoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// DatabaseObject returns the object specifier for every table in a database.
func DatabaseObject(database string) string {
	return QuoteIdent(database) + ".*"
}

// TableObject returns the object specifier for a single table.
func TableObject(database, table string) string {
	return QuoteIdent(database) + "." + QuoteIdent(table)
}

// ValidKeyword reports whether keyword is safe to interpolate into GRANT or REVOKE.
func ValidKeyword(keyword string) bool {
	return keywordRe.MatchString(keyword)
}

// Account identifies a native server account.
type Account struct {
	User string
	Host string
}

// String renders the account as 'user'@'host'.
func (a Account) String() string {
	return QuoteString(a.User) + "@" + QuoteString(a.Host)
}

// Key returns the unquoted user@host identity.
func (a Account) Key() string {
	return a.User + "@" + a.Host
}
