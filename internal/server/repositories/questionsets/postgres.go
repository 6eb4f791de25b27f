package questionsets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/dbx"
	"github.com/mathrevise/backend/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.QuestionSet, error) {
	query :=
		`SELECT name, author, questions FROM question_sets
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.QuestionSet
	for rows.Next() {
		var s models.QuestionSet
		var questions []byte
		if err := rows.Scan(&s.Name, &s.Author, &questions); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(questions, &s.Questions); err != nil {
			return nil, fmt.Errorf("malformed questions payload for %q: %w", s.Name, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, set *models.QuestionSet) error {
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}

	query :=
		`INSERT INTO question_sets (name, author, questions)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, set.Name, set.Author, questions); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, name string) error {
	query :=
		`DELETE FROM question_sets
		 WHERE name = $1
		 `

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
