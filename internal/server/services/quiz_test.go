package services

import (
	"context"
	"testing"
	"time"

	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/userreq"
)

type fakeQuestionSetsRepo struct {
	listOut []models.QuestionSet
	listErr error

	created   *models.QuestionSet
	createErr error

	deleteErr error
}

func (f *fakeQuestionSetsRepo) List(ctx context.Context) ([]models.QuestionSet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeQuestionSetsRepo) Create(ctx context.Context, set *models.QuestionSet) error {
	f.created = set
	return f.createErr
}

func (f *fakeQuestionSetsRepo) Delete(ctx context.Context, name string) error {
	return f.deleteErr
}

func newQuizService(t *testing.T, rm *fakeRepoManager) *QuizService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewQuizService(db, rm, testLogger())
}

func sampleSet() *models.QuestionSet {
	return &models.QuestionSet{
		Name:   "algebra-1",
		Author: "teacher1",
		Questions: []models.Question{
			{Title: "q1", Markup: "what is $2+2$", Answer: "4"},
		},
	}
}

func TestAddQuestionSet(t *testing.T) {
	qs := &fakeQuestionSetsRepo{}
	s := newQuizService(t, &fakeRepoManager{qs: qs})
	if err := s.AddQuestionSet(context.Background(), sampleSet()); err != nil {
		t.Fatalf("AddQuestionSet error: %v", err)
	}
	if qs.created == nil || qs.created.Name != "algebra-1" {
		t.Fatalf("stored set: %+v", qs.created)
	}
}

func TestAddQuestionSet_Validation(t *testing.T) {
	s := newQuizService(t, &fakeRepoManager{qs: &fakeQuestionSetsRepo{}})

	noName := sampleSet()
	noName.Name = ""
	wantKind(t, s.AddQuestionSet(context.Background(), noName), userreq.QuestionSetError)

	empty := sampleSet()
	empty.Questions = nil
	wantKind(t, s.AddQuestionSet(context.Background(), empty), userreq.QuestionSetError)
}

func TestAddQuestionSet_DuplicateName(t *testing.T) {
	qs := &fakeQuestionSetsRepo{createErr: common.ErrorAlreadyExists}
	s := newQuizService(t, &fakeRepoManager{qs: qs})
	wantKind(t, s.AddQuestionSet(context.Background(), sampleSet()), userreq.QuestionSetError)
}

func TestDeleteQuestionSet(t *testing.T) {
	s := newQuizService(t, &fakeRepoManager{qs: &fakeQuestionSetsRepo{}})
	if err := s.DeleteQuestionSet(context.Background(), "algebra-1"); err != nil {
		t.Fatalf("DeleteQuestionSet error: %v", err)
	}

	sNF := newQuizService(t, &fakeRepoManager{qs: &fakeQuestionSetsRepo{deleteErr: common.ErrorNotFound}})
	wantKind(t, sNF.DeleteQuestionSet(context.Background(), "ghost"), userreq.QuestionSetError)
}

func TestListQuestionSets(t *testing.T) {
	qs := &fakeQuestionSetsRepo{listOut: []models.QuestionSet{*sampleSet()}}
	s := newQuizService(t, &fakeRepoManager{qs: qs})
	got, err := s.ListQuestionSets(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("ListQuestionSets: got %v, %v", got, err)
	}

	sErr := newQuizService(t, &fakeRepoManager{qs: &fakeQuestionSetsRepo{listErr: errBoom{}}})
	_, err = sErr.ListQuestionSets(context.Background())
	wantKind(t, err, userreq.QuestionSetError)
}

func TestRecordReview(t *testing.T) {
	rv := &fakeReviewsRepo{}
	s := newQuizService(t, &fakeRepoManager{rv: rv})
	taken := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return taken }

	responses := []models.Response{
		models.NewResponse("what is $2+2$", "4", "4"),
		models.NewResponse("what is $3*3$", "6", "9"),
	}
	review, err := s.RecordReview(context.Background(), "alice", "algebra-1", responses)
	if err != nil {
		t.Fatalf("RecordReview error: %v", err)
	}
	if review.ID == "" {
		t.Fatal("review needs an id")
	}
	if !review.TakenAt.Equal(taken) {
		t.Fatalf("taken_at: %v", review.TakenAt)
	}
	if !review.Responses[0].IsCorrect || review.Responses[1].IsCorrect {
		t.Fatalf("grading wrong: %+v", review.Responses)
	}
}

func TestRecordReview_StoreError(t *testing.T) {
	s := newQuizService(t, &fakeRepoManager{rv: &fakeReviewsRepo{createErr: errBoom{}}})
	_, err := s.RecordReview(context.Background(), "alice", "algebra-1", nil)
	wantKind(t, err, userreq.ReviewError)
}

func TestListReviews(t *testing.T) {
	rv := &fakeReviewsRepo{listOut: []models.QuizReview{{ID: "r1", Username: "alice"}}}
	s := newQuizService(t, &fakeRepoManager{rv: rv})
	got, err := s.ListReviews(context.Background(), "alice")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListReviews: got %v, %v", got, err)
	}

	sErr := newQuizService(t, &fakeRepoManager{rv: &fakeReviewsRepo{listErr: errBoom{}}})
	_, err = sErr.ListReviews(context.Background(), "alice")
	wantKind(t, err, userreq.ReviewError)
}
