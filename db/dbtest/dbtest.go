// SPDX-License-Identifier: GPL-3.0-only

// Package dbtest provides migrated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"rentdesk-server/db"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New returns a fresh, fully migrated database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(db.Config{
		Dialect: "sqlite",
		Path:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// One connection keeps the shared-cache database free of table locks.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.MigrateDB(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}
