package migrations

import (
	"github.com/threadworks/gatehouse/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250602_create_options_table",
		Name: "Create options table and seed the moderation defaults",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.options (
					name       TEXT PRIMARY KEY,
					value      TEXT NOT NULL DEFAULT '',
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			// Absent rows disable the matching check, so only the
			// numeric knobs get seeded.
			if err := db.Exec(`
				INSERT INTO public.options (name, value) VALUES
					('throttle_seconds', '60'),
					('max_links', '2')
				ON CONFLICT (name) DO NOTHING;
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS public.options;`).Error
		},
	})
}
