package poi

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/iReady/iReady-Backend/internal/db"
)

// Init ensures the relief schema and the POI table exist.
func Init(conn *gorm.DB) error {
	if err := db.EnsureSchema(conn, "relief"); err != nil {
		return fmt.Errorf("ensuring schema relief: %w", err)
	}
	if err := conn.AutoMigrate(&StoredPOI{}); err != nil {
		return fmt.Errorf("migrating POI table: %w", err)
	}
	return nil
}
