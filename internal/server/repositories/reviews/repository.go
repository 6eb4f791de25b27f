// Package reviews stores completed quiz attempts for later review.
package reviews

import (
	"context"

	"github.com/mathrevise/backend/internal/server/models"
)

type Repository interface {
	// Create stores a review. The ID is assigned by the caller.
	Create(ctx context.Context, review *models.QuizReview) error

	// ListByUsername returns a user's reviews, most recent first.
	ListByUsername(ctx context.Context, username string) ([]models.QuizReview, error)

	// DeleteByUsername removes every review owned by the user. Used when an
	// account is deleted so no review dangles on a missing username.
	DeleteByUsername(ctx context.Context, username string) error
}
