package migrations

import (
	"github.com/threadworks/gatehouse/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250601_create_members_table",
		Name: "Create members table holding the moderation read model of forum accounts",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.members (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					display_name    TEXT NOT NULL,
					email           TEXT NOT NULL DEFAULT '',
					url             TEXT NOT NULL DEFAULT '',
					unrestricted    BOOLEAN NOT NULL DEFAULT FALSE,
					throttle_exempt BOOLEAN NOT NULL DEFAULT FALSE,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			// Lookups by email happen when reconciling accounts
			// imported from the platform.
			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_members_email
				ON public.members (email);
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS public.members;`).Error
		},
	})
}
