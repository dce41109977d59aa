package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/iReady/iReady-Backend/internal/db"
)

// Init ensures the app_auth schema and tables exist.
func Init(conn *gorm.DB) error {
	if err := db.EnsureSchema(conn, "app_auth"); err != nil {
		return fmt.Errorf("ensuring schema app_auth: %w", err)
	}

	if err := conn.AutoMigrate(&User{}, &Session{}); err != nil {
		return fmt.Errorf("migrating auth tables: %w", err)
	}
	return nil
}
