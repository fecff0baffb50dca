package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/rehearsal/internal/dbx"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/bands"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Bands(db dbx.DBTX) bands.Repository
}
