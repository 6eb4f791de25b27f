// Package questionsets stores the named question collections teachers
// author for quizzes.
package questionsets

import (
	"context"

	"github.com/mathrevise/backend/internal/server/models"
)

type Repository interface {
	// List returns every stored set ordered by name.
	List(ctx context.Context) ([]models.QuestionSet, error)

	// Create inserts a new set. common.ErrorAlreadyExists on a name clash.
	Create(ctx context.Context, set *models.QuestionSet) error

	// Delete removes the named set. common.ErrorNotFound when absent.
	Delete(ctx context.Context, name string) error
}
