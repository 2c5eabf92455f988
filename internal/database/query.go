package database

import (
	"strings"
)

// Rebind rewrites a query written with ? placeholders into the dialect's
// placeholder style. Queries never contain a literal question mark.
//
//	Rebind(&PostgresDialect{}, "SELECT tiles FROM levels WHERE run_id = ? AND depth = ?")
//	// SELECT tiles FROM levels WHERE run_id = $1 AND depth = $2
func Rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + strings.Count(query, "?")*2)
	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteString(d.Placeholder(n))
	}
	return sb.String()
}
