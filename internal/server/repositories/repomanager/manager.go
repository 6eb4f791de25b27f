package repomanager

import (
	"context"
	"database/sql"

	"github.com/mathrevise/backend/internal/dbx"
	"github.com/mathrevise/backend/internal/server/repositories/questionsets"
	"github.com/mathrevise/backend/internal/server/repositories/reviews"
	"github.com/mathrevise/backend/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX handle,
// so services can run an operation against either the pool or an open
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	QuestionSets(db dbx.DBTX) questionsets.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
