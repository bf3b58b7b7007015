// Package repomanager vends repository implementations bound to a database
// handle, so services can use the same repository code inside and outside a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/AKupriichuk/CV-on-the-Go/internal/dbx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/documents"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/sessions"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Documents(db dbx.DBTX) documents.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
