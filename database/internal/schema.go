// Package internal holds helpers shared by the SQL cache stores.
package internal

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// ValidateTableName returns an error naming the rule a table name breaks.
func ValidateTableName(name string) error {
	if name == "" {
		return errors.New("table name cannot be empty")
	}
	if !IsValidTableName(name) {
		return fmt.Errorf("invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
	}
	return nil
}

// Column describes one expected or actual table column.
type Column struct {
	DataType   string
	IsNullable bool
}

// CompareColumns reports every expected column that is missing from actual
// or differs in type or nullability.
func CompareColumns(tableName string, expected, actual map[string]Column) error {
	var missingColumns []string
	var mismatchedColumns []string

	for colName, want := range expected {
		got, exists := actual[colName]
		if !exists {
			missingColumns = append(missingColumns, colName)
			continue
		}

		if got.DataType != want.DataType {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected %s, got %s", colName, want.DataType, got.DataType))
		}

		if got.IsNullable != want.IsNullable {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, want.IsNullable, got.IsNullable))
		}
	}

	if len(missingColumns) == 0 && len(mismatchedColumns) == 0 {
		return nil
	}

	slices.Sort(missingColumns)
	slices.Sort(mismatchedColumns)

	var errMsg strings.Builder
	fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", tableName)

	if len(missingColumns) > 0 {
		fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missingColumns, ", "))
	}

	if len(mismatchedColumns) > 0 {
		fmt.Fprintf(&errMsg, "  mismatched columns:\n")
		for _, msg := range mismatchedColumns {
			fmt.Fprintf(&errMsg, "    - %s\n", msg)
		}
	}

	return errors.New(errMsg.String())
}
