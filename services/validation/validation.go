// Package validation holds per-entity request validators. Every rule is an
// independent predicate evaluated unconditionally so all violations are
// reported together rather than stopping at the first failure.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"camsapi/models"

	"github.com/robfig/cron/v3"
)

// PasswordSpecialChars is the accepted special character set for passwords.
const PasswordSpecialChars = "!@#$%^&*()-_=+[]{};:,.<>?"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidatePassword checks the password policy: minimum length plus presence
// of upper, lower, digit and one special character. Every missing category
// is reported.
func ValidatePassword(password string, minLength int) []string {
	var errs []string

	if len(password) < minLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", minLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain a digit")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain a special character ("+PasswordSpecialChars+")")
	}

	return errs
}

// ValidateUsername checks username length and character set.
func ValidateUsername(username string) []string {
	var errs []string

	if username == "" {
		errs = append(errs, "username is required")
	}
	if len(username) > 50 {
		errs = append(errs, "username must not exceed 50 characters")
	}
	if username != "" && !usernamePattern.MatchString(username) {
		errs = append(errs, "username may only contain letters, digits, underscore, dot and hyphen")
	}

	return errs
}

// ValidateRoleName checks role name constraints.
func ValidateRoleName(name string) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "role name is required")
	}
	if len(name) > 50 {
		errs = append(errs, "role name must not exceed 50 characters")
	}

	return errs
}

// ValidateApplication checks the editable application fields.
func ValidateApplication(name, description, version string) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "application name is required")
	}
	if len(name) > 100 {
		errs = append(errs, "application name must not exceed 100 characters")
	}
	if len(description) > 500 {
		errs = append(errs, "description must not exceed 500 characters")
	}
	if len(version) > 50 {
		errs = append(errs, "version must not exceed 50 characters")
	}

	return errs
}

// ValidateConnection checks a connection entity after DTO mapping. Type-kind
// rules: relational types require a database name, API types require a
// connection string or URL, everything else requires host and a valid port.
func ValidateConnection(c *models.DatabaseConnection) []string {
	var errs []string

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "connection name is required")
	}
	if len(c.Name) > 100 {
		errs = append(errs, "connection name must not exceed 100 characters")
	}

	// An unknown type has no kind rules, but the generic field checks below
	// still run so the caller sees every violation at once.
	if !models.IsValidConnectionType(c.Type) {
		errs = append(errs, fmt.Sprintf("unknown connection type %q", c.Type))
	} else if c.Type.IsAPI() {
		if c.ConnectionString == "" {
			errs = append(errs, fmt.Sprintf("connection string or URL is required for type %q", c.Type))
		}
	} else {
		if c.Host == "" {
			errs = append(errs, "host is required")
		}
		if c.Port < 1 || c.Port > 65535 {
			errs = append(errs, "port must be between 1 and 65535")
		}
	}

	if c.Type.IsRelational() && c.DatabaseName == "" {
		errs = append(errs, fmt.Sprintf("database name is required for relational type %q", c.Type))
	}

	if len(c.Host) > 253 {
		errs = append(errs, "host must not exceed 253 characters")
	}

	return errs
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCron checks a standard 5-field cron expression.
func ValidateCron(expr string) []string {
	if strings.TrimSpace(expr) == "" {
		return []string{"cron expression is required"}
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return []string{fmt.Sprintf("invalid cron expression %q: %v", expr, err)}
	}
	return nil
}

// CronSchedule parses a 5-field cron expression for next-run computation.
func CronSchedule(expr string) (cron.Schedule, error) {
	return cronParser.Parse(expr)
}
