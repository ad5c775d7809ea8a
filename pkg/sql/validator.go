// Package sql provides the query composition and validation utilities used
// by the reporting catalog: single-statement template verification,
// positional predicate composition, and parameter injection scanning.
package sql

import (
	"errors"
	"strings"
)

var (
	// ErrMultipleStatements indicates a template contains more than one SQL
	// statement.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

	// ErrEmptyStatement indicates a template is empty after normalization.
	ErrEmptyStatement = errors.New("empty SQL statement")
)

// ValidateTemplate normalizes a catalog query template and verifies it is a
// single non-empty statement. The normalized form (trailing semicolon and
// surrounding whitespace stripped) is returned.
//
// Templates are fixed at compile time, so a failure here is a programming
// error caught at startup, not a runtime condition.
func ValidateTemplate(template string) (string, error) {
	normalized := stripTrailingSemicolon(strings.TrimSpace(template))
	if normalized == "" {
		return "", ErrEmptyStatement
	}
	// Any semicolon left after normalization means a second statement.
	if hasSemicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}
	return normalized, nil
}

// hasSemicolonOutsideStrings reports whether the SQL contains a semicolon
// outside of string literals and quoted identifiers.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handles both backslash escape (\') and SQL standard escape ('').
			// A doubled quote exits and immediately re-enters on the next
			// quote, which keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes one trailing semicolon and any surrounding
// trailing whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimRight(strings.TrimSuffix(sqlQuery, ";"), " \t\n\r")
	}
	return sqlQuery
}
