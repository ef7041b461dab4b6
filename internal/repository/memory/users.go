package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) check(user *domain.User) error {
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return apperrors.WrapDuplicate("user", "email", user.Email)
		}
	}
	if user.LabID != nil {
		if _, ok := r.s.labs[*user.LabID]; !ok {
			return apperrors.WrapLabNotFound(user.LabID.String())
		}
	}
	return nil
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(user); err != nil {
		return err
	}
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.WrapUserNotFound(id.String())
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.WrapUserNotFound(email)
}

func (r *userRepository) List(_ context.Context, filter domain.UserFilter) ([]*domain.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	users := []*domain.User{}
	for _, u := range r.s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.LabID != nil && (u.LabID == nil || *u.LabID != *filter.LabID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return lessID(users[i].ID, users[j].ID)
	})
	return paginate(users, filter.Limit, filter.Offset), len(users), nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return apperrors.WrapUserNotFound(user.ID.String())
	}
	if err := r.check(user); err != nil {
		return err
	}
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperrors.WrapUserNotFound(id.String())
	}
	for _, l := range r.s.loans {
		if l.UserID == id {
			return apperrors.WrapInUse("user", id.String(), "loans still refer to it")
		}
	}
	delete(r.s.users, id)
	for nid, n := range r.s.notifications {
		if n.UserID == id {
			delete(r.s.notifications, nid)
		}
	}
	return nil
}
