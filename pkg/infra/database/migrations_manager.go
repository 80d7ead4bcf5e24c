package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is one schema step, identified by a sortable ID.
type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registry []Migration

// RegisterMigration is called from the migrations package init
// functions. Registering the same ID twice is a programming error.
func RegisterMigration(m Migration) {
	for _, existing := range registry {
		if existing.ID == m.ID {
			panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
		}
	}
	registry = append(registry, m)
}

const bookkeepingTableSQL = `
CREATE TABLE IF NOT EXISTS public.schema_migrations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

// ApplyPending runs every registered migration that has no bookkeeping
// row yet, in lexicographic ID order. Each step commits together with
// its bookkeeping row.
func (m *MigrationsManager) ApplyPending() error {
	if err := m.db.Exec(bookkeepingTableSQL).Error; err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := m.appliedIDs()
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	pending := make([]Migration, 0, len(registry))
	for _, mig := range registry {
		if _, done := applied[mig.ID]; !done {
			pending = append(pending, mig)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	for _, mig := range pending {
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", mig.ID)
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Exec(
				"INSERT INTO public.schema_migrations (id, name, applied_at) VALUES (?, ?, ?)",
				mig.ID, mig.Name, time.Now(),
			).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
	}
	return nil
}

func (m *MigrationsManager) appliedIDs() (map[string]struct{}, error) {
	var ids []string
	if err := m.db.Raw("SELECT id FROM public.schema_migrations").Scan(&ids).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		applied[id] = struct{}{}
	}
	return applied, nil
}
