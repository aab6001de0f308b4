// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// Qualified renders columns as a select list prefixed with a table alias,
// e.g. Qualified("r", []string{"id", "score"}) is "r.id, r.score".
func Qualified(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
