package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/logging"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/server/repositories/repomanager"
	"github.com/mathrevise/backend/internal/userreq"
)

// QuizService manages question sets and the reviews produced by taking them.
type QuizService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time
}

func NewQuizService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *QuizService {
	return &QuizService{
		db:     db,
		repos:  m,
		logger: l.With("module", "quiz_service"),
		now:    time.Now,
	}
}

// ListQuestionSets returns every stored set ordered by name.
func (s *QuizService) ListQuestionSets(ctx context.Context) ([]models.QuestionSet, error) {
	out, err := s.repos.QuestionSets(s.db).List(ctx)
	if err != nil {
		return nil, userreq.Wrap(userreq.QuestionSetError, "Could not fetch question sets", err)
	}
	return out, nil
}

// AddQuestionSet stores a new set. Set names are unique.
func (s *QuizService) AddQuestionSet(ctx context.Context, set *models.QuestionSet) error {
	if set.Name == "" {
		return userreq.New(userreq.QuestionSetError, "A question set needs a name")
	}
	if len(set.Questions) == 0 {
		return userreq.New(userreq.QuestionSetError, "A question set needs at least one question")
	}

	if err := s.repos.QuestionSets(s.db).Create(ctx, set); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return userreq.Wrap(userreq.QuestionSetError, "A question set with that name already exists", err)
		}
		return userreq.Wrap(userreq.QuestionSetError, "Could not add question set", err)
	}

	s.logger.Info(ctx, "question set added", "name", set.Name, "questions", len(set.Questions))
	return nil
}

// DeleteQuestionSet removes the named set. Existing reviews keep their graded
// responses, so deleting a set does not touch them.
func (s *QuizService) DeleteQuestionSet(ctx context.Context, name string) error {
	if err := s.repos.QuestionSets(s.db).Delete(ctx, name); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return userreq.Wrap(userreq.QuestionSetError, "Could not find question set", err)
		}
		return userreq.Wrap(userreq.QuestionSetError, "Could not delete question set", err)
	}
	return nil
}

// RecordReview stores a completed quiz attempt under a fresh id and returns
// the stored review.
func (s *QuizService) RecordReview(ctx context.Context, username, setName string, responses []models.Response) (*models.QuizReview, error) {
	review := &models.QuizReview{
		ID:        uuid.NewString(),
		Username:  username,
		SetName:   setName,
		Responses: responses,
		TakenAt:   s.now(),
	}

	if err := s.repos.Reviews(s.db).Create(ctx, review); err != nil {
		return nil, userreq.Wrap(userreq.ReviewError, "Could not save quiz review", err)
	}

	return review, nil
}

// ListReviews returns a user's reviews, most recent first.
func (s *QuizService) ListReviews(ctx context.Context, username string) ([]models.QuizReview, error) {
	out, err := s.repos.Reviews(s.db).ListByUsername(ctx, username)
	if err != nil {
		return nil, userreq.Wrap(userreq.ReviewError, "Could not fetch quiz reviews", err)
	}
	return out, nil
}
