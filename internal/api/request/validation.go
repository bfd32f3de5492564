package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	// Account names as MariaDB accepts them (80 characters).
	mysqlNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,79}$`)
	// Host patterns: names, addresses, wildcards and netmasks.
	mysqlHostRegex = regexp.MustCompile(`^[A-Za-z0-9%_.:/-]{1,255}$`)
	// Database and table names.
	mysqlIdentRegex = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)
)

func init() {
	validate.RegisterValidation("mysql_name", func(fl validator.FieldLevel) bool {
		return mysqlNameRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("mysql_host", func(fl validator.FieldLevel) bool {
		return mysqlHostRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("mysql_ident", func(fl validator.FieldLevel) bool {
		return mysqlIdentRegex.MatchString(fl.Field().String())
	})
	validate.RegisterStructValidation(scopeRule, AssignRole{})
}

// scopeRule rejects scope and target combinations that cannot name a native
// object before they reach the engine.
func scopeRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(AssignRole)
	if err := req.Scope().Validate(); err != nil {
		sl.ReportError(req.ScopeType, "scope_type", "ScopeType", "scope", err.Error())
	}
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}

