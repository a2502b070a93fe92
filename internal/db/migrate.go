package db

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lg/calorie-tracker/internal/models"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.FoodCategory{},
		&models.Food{},
		&models.FoodLog{},
		&models.WeightLog{},
	}
}

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAuto := conn.AutoMigrate(Models()...); errAuto != nil {
		return fmt.Errorf("db: auto migrate: %w", errAuto)
	}

	switch DialectName(conn) {
	case DialectSQLite:
		return migrateSQLite(conn)
	case DialectPostgres:
		return migratePostgres(conn)
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
}

// migrateSQLite adds the expression index used by case-insensitive food search.
func migrateSQLite(conn *gorm.DB) error {
	if errIndex := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_foods_name_lower ON foods (LOWER(name))
	`).Error; errIndex != nil {
		return fmt.Errorf("db: create foods name index: %w", errIndex)
	}
	log.Debug("db: sqlite schema up to date")
	return nil
}

// migratePostgres adds the lower(name) index and check constraints for the
// positive-quantity invariants.
func migratePostgres(conn *gorm.DB) error {
	if errIndex := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_foods_name_lower ON foods (LOWER(name))
	`).Error; errIndex != nil {
		return fmt.Errorf("db: create foods name index: %w", errIndex)
	}

	checks := []struct {
		table, name, expr string
	}{
		{"foods", "chk_foods_serving_size_positive", "serving_size_g > 0"},
		{"foods", "chk_foods_calories_non_negative", "calories >= 0"},
		{"food_logs", "chk_food_logs_serving_size_positive", "serving_size_g > 0"},
		{"weight_logs", "chk_weight_logs_weight_positive", "weight_kg > 0"},
	}
	for _, c := range checks {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
				END IF;
			END $$;
		`, c.name, c.table, c.name, c.expr)
		if errCheck := conn.Exec(stmt).Error; errCheck != nil {
			return fmt.Errorf("db: add constraint %s: %w", c.name, errCheck)
		}
	}
	log.Debug("db: postgres schema up to date")
	return nil
}
