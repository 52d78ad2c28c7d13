package repositories

import (
	"strconv"
	"strings"
)

// Dialect selects SQL syntax differences between the supported databases.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, bool) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case SQLite:
		return SQLite, true
	case Postgres, "postgresql", "pgx":
		return Postgres, true
	}
	return "", false
}

// rebind rewrites "?" placeholders to "$n" for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) realType() string {
	if d == Postgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}
