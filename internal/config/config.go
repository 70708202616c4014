package config

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the local embedded database. The whole system is
// single-user, so a sqlite file next to the binary is the store.
func InitDB() *gorm.DB {
	path := os.Getenv("FINANCE_DB_PATH")
	if path == "" {
		path = "finance_data.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", path, err)
	}

	// cascade deletes on transaction_tags depend on this
	db.Exec("PRAGMA foreign_keys = ON")

	return db
}

// ListenAddr returns the HTTP listen address, default :3000.
func ListenAddr() string {
	if addr := os.Getenv("FINANCE_LISTEN_ADDR"); addr != "" {
		return addr
	}
	return ":3000"
}
