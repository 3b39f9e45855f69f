package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamhive/streamhive/internal/dbx"
	"github.com/streamhive/streamhive/internal/server/repositories/users"
)

// MemoryRepositoryManager vends a single shared in-memory users repository,
// ignoring the database handle. Used by unit tests.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
