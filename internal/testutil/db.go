// Package testutil paket testleri için ortak yardımcılar içerir.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"bakim-takip-backend/internal/database"

	"gorm.io/gorm"
)

// NewDB test başına izole, bellek içi ve migrate edilmiş bir sqlite
// veritabanı açar.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sqlite açılamadı: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration başarısız: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
