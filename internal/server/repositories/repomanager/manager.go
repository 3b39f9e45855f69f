// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same repository against *sql.DB or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamhive/streamhive/internal/dbx"
	"github.com/streamhive/streamhive/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
