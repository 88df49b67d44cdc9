package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect はSQL方言（ドライバ種別）を表す。
type Dialect string

const (
	// DialectPostgres はlib/pqによるPostgreSQL。
	DialectPostgres Dialect = "postgres"
	// DialectSQLite はmodernc.org/sqliteによるSQLite。
	DialectSQLite Dialect = "sqlite"
)

// sqlitePragmas はSQLite接続ごとに適用するプラグマ。
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// DB は接続プールと方言の組。
type DB struct {
	*sql.DB
	Dialect Dialect
}

// ParseURL はDATABASE_URLのスキームから方言とドライバ用DSNを決定する。
//
//	postgres://... / postgresql://...  -> PostgreSQL（URLをそのまま使用）
//	sqlite://<path>                    -> SQLite（<path>にプラグマを付与）
func ParseURL(databaseURL string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DialectPostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		path, _, _ = strings.Cut(path, "?")
		if path == "" {
			return "", "", fmt.Errorf("sqlite database path is empty")
		}
		return DialectSQLite, path + "?" + sqlitePragmas, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}

// Open はデータベース接続を開く。
// sql.Openは接続を試行しないため、実際の接続確認にはdb.Ping()を使用すること。
// SQLiteは書き込みが直列化されるため、接続数を1に制限する。
func Open(databaseURL string) (*DB, error) {
	dialect, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// Rebind は ? プレースホルダのクエリを方言に合わせて書き換える。
// PostgreSQLでは $1, $2 ... に置換し、SQLiteではそのまま返す。
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsUniqueViolation は一意制約違反エラーかどうかを判定する。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
	}

	return false
}
