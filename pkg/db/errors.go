package db

import "strings"

// IsUniqueViolation inspects the error text for a unique constraint
// failure. Matching on message text keeps it working for both the
// Postgres and sqlite drivers; pass constraintName to target one
// specific index.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
