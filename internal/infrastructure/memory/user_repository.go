package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria indexados por ID.
type UserRepo struct {
	g guard
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.g.lock()()
	for _, u := range r.g.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	c := *user
	r.g.s.users[user.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.g.lock()()
	u, ok := r.g.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.g.lock()()
	for _, u := range r.g.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	defer r.g.lock()()
	out := make([]*entity.User, 0, len(r.g.s.users))
	for _, u := range r.g.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *UserRepo) SetHours(_ context.Context, id string, hours entity.WorkHours) error {
	defer r.g.lock()()
	u, ok := r.g.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Hours = hours
	u.UpdatedAt = time.Now().UTC()
	return nil
}
