package users

import (
	"context"
	"sort"
	"sync"

	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/server/models"
)

// InMemoryRepository keeps users in a mutex-guarded map. Strike mutations
// hold the lock for the whole increment, giving the same no-lost-update
// guarantee the postgres implementation gets from its atomic UPDATE.
type InMemoryRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return common.ErrorAlreadyExists
	}
	r.users[user.Username] = *user
	return nil
}

func (r *InMemoryRepository) AddStrike(ctx context.Context, username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.Strikes++
	r.users[username] = u
	return u.Strikes, nil
}

func (r *InMemoryRepository) ResetStrikes(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil
	}
	u.Strikes = 0
	r.users[username] = u
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, username)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
