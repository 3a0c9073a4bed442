package application

import (
	"context"
	"sync"
	"time"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
)

// In-memory repositories backing the service tests.

type stubUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*entity.User
	members map[int64][]int64 // userID -> type IDs
	types   *stubUserTypeRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		nextID:  1,
		users:   make(map[int64]*entity.User),
		members: make(map[int64][]int64),
	}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	stored.Username = u.Username
	stored.Email = u.Email
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.members, id)
	return nil
}

func (r *stubUserRepo) TypesFor(_ context.Context, userID int64) ([]entity.UserType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.UserType
	if r.types == nil {
		return out, nil
	}
	for _, typeID := range r.members[userID] {
		if t, ok := r.types.records[typeID]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

type stubUserTypeRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*entity.UserType
	users   *stubUserRepo
}

func newStubUserTypeRepo(users *stubUserRepo) *stubUserTypeRepo {
	r := &stubUserTypeRepo{nextID: 1, records: make(map[int64]*entity.UserType), users: users}
	if users != nil {
		users.types = r
	}
	return r
}

func (r *stubUserTypeRepo) Create(_ context.Context, t *entity.UserType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.records[t.ID] = &cp
	return nil
}

func (r *stubUserTypeRepo) GetByID(_ context.Context, id int64) (*entity.UserType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubUserTypeRepo) List(_ context.Context) ([]entity.UserType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.UserType, 0, len(r.records))
	for _, t := range r.records {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubUserTypeRepo) Update(_ context.Context, t *entity.UserType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = t.Name
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserTypeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	if r.users != nil {
		r.users.mu.Lock()
		for uid, ids := range r.users.members {
			kept := ids[:0]
			for _, tid := range ids {
				if tid != id {
					kept = append(kept, tid)
				}
			}
			r.users.members[uid] = kept
		}
		r.users.mu.Unlock()
	}
	return nil
}

func (r *stubUserTypeRepo) Assign(_ context.Context, userID, typeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users == nil {
		return nil
	}
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	for _, tid := range r.users.members[userID] {
		if tid == typeID {
			return nil
		}
	}
	r.users.members[userID] = append(r.users.members[userID], typeID)
	return nil
}

var (
	_ repository.UserRepository     = (*stubUserRepo)(nil)
	_ repository.UserTypeRepository = (*stubUserTypeRepo)(nil)
)
