// Package database opens the MySQL connection pool and applies the embedded
// schema migrations.
package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config describes the MySQL server and the pool kept against it.  Zero
// pool values fall back to the defaults of Open.
type Config struct {
	User, Pass       string
	Host, Port, Name string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders c as a driver data source name.  DATETIME columns scan into
// time.Time in UTC and the connection collation is utf8mb4_unicode_ci.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	return mc.FormatDSN()
}

// Open connects to MySQL, sizes the pool and verifies the connection with a
// ping bounded to five seconds.
func Open(c Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(orDefault(c.MaxOpenConns, 25))
	db.SetMaxIdleConns(orDefault(c.MaxIdleConns, 25))
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
