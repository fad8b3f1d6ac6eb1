package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites '?' placeholders into the dialect's form.
func (d dialect) rebind(q string) string {
	if d != dialectPostgres {
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

// parseDSN picks the backend for a connection string. Supported forms:
// postgres://..., postgresql://..., sqlite:///relative.db, sqlite:////abs.db,
// sqlite://path and a bare file path.
func parseDSN(dsn string) (dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return 0, "", errors.New("empty database url")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return dialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite:///"):
		return dialectSQLite, strings.TrimPrefix(dsn, "sqlite:///"), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return dialectSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.Contains(dsn, "://"):
		return 0, "", fmt.Errorf("unsupported database url scheme: %s", dsn[:strings.Index(dsn, "://")])
	default:
		return dialectSQLite, dsn, nil
	}
}

// Open connects to the database named by dsn, runs migrations and returns a
// repository. An embedded SQLite file is used unless dsn is a postgres URL.
func Open(ctx context.Context, dsn string) (*SQLRepo, error) {
	d, target, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch d {
	case dialectPostgres:
		db, err = openPostgres(ctx, target)
	default:
		db, err = openSQLite(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &SQLRepo{db: db, d: d}, nil
}
