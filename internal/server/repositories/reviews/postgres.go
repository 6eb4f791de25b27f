package reviews

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mathrevise/backend/internal/dbx"
	"github.com/mathrevise/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.QuizReview) error {
	responses, err := json.Marshal(review.Responses)
	if err != nil {
		return fmt.Errorf("encoding responses: %w", err)
	}

	query :=
		`INSERT INTO quiz_reviews (id, username, set_name, responses, taken_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		review.ID, review.Username, review.SetName, responses, review.TakenAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListByUsername(ctx context.Context, username string) ([]models.QuizReview, error) {
	query :=
		`SELECT id, username, set_name, responses, taken_at FROM quiz_reviews
		 WHERE username = $1
		 ORDER BY taken_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.QuizReview
	for rows.Next() {
		var rv models.QuizReview
		var responses []byte
		if err := rows.Scan(&rv.ID, &rv.Username, &rv.SetName, &responses, &rv.TakenAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(responses, &rv.Responses); err != nil {
			return nil, fmt.Errorf("malformed responses payload for %q: %w", rv.ID, err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) DeleteByUsername(ctx context.Context, username string) error {
	query :=
		`DELETE FROM quiz_reviews
		 WHERE username = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
