package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/attendly/internal/security"
)

// fakeStore is an in-memory Store keyed by email
type fakeStore struct {
	nextID int64
	users  map[string]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*User)}
}

func (f *fakeStore) Create(ctx context.Context, username, email, passwordHash string, role Role) (*User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, &pq.Error{Code: "23505"}
		}
	}
	f.nextID++
	u := &User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.users[email], nil
}

func (f *fakeStore) List(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) UpdateByEmail(ctx context.Context, email string, req *UpdateUserRequest) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	return u, nil
}

func (f *fakeStore) DeleteByEmail(ctx context.Context, email string) error {
	if _, ok := f.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(f.users, email)
	return nil
}

func TestCreateUser(t *testing.T) {
	svc := NewService(newFakeStore())

	u, err := svc.Create(context.Background(), &CreateUserRequest{
		Username: "sara",
		Email:    "sara@example.com",
		Password: "pass-word-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.Role != RoleMember {
		t.Errorf("role = %q, want default %q", u.Role, RoleMember)
	}
	if u.PasswordHash == "pass-word-1" {
		t.Error("password stored in plaintext")
	}
	if !security.CheckPassword("pass-word-1", u.PasswordHash) {
		t.Error("stored hash does not verify against the password")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr error
	}{
		{"missing username", CreateUserRequest{Email: "a@b.com", Password: "x"}, ErrInvalidInput},
		{"blank username", CreateUserRequest{Username: "  ", Email: "a@b.com", Password: "x"}, ErrInvalidInput},
		{"missing email", CreateUserRequest{Username: "a", Password: "x"}, ErrInvalidInput},
		{"missing password", CreateUserRequest{Username: "a", Email: "a@b.com"}, ErrInvalidInput},
		{"unknown role", CreateUserRequest{Username: "a", Email: "a@b.com", Password: "x", Role: "root"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), &tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUserConflict(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "sara", Email: "sara@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "sara2", Email: "sara@example.com", Password: "pw"}); !errors.Is(err, ErrUserExists) {
		t.Errorf("Create() duplicate error = %v, want ErrUserExists", err)
	}
}

func TestGetUser(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{Username: "sara", Email: "sara@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byEmail, err := svc.GetByEmail(ctx, "sara@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", byEmail.ID, created.ID)
	}

	if _, err := svc.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail() unknown error = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.GetByID(ctx, int64(999)); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() unknown error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "sara", Email: "sara@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "sara-v2"
	adminRole := RoleAdmin
	updated, err := svc.UpdateByEmail(ctx, "sara@example.com", &UpdateUserRequest{Username: &newName, Role: &adminRole})
	if err != nil {
		t.Fatalf("UpdateByEmail() error = %v", err)
	}
	if updated.Username != "sara-v2" || updated.Role != RoleAdmin {
		t.Errorf("UpdateByEmail() = %+v, want username sara-v2 with admin role", updated)
	}

	badRole := Role("root")
	if _, err := svc.UpdateByEmail(ctx, "sara@example.com", &UpdateUserRequest{Role: &badRole}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("UpdateByEmail() bad role error = %v, want ErrInvalidRole", err)
	}
	if _, err := svc.UpdateByEmail(ctx, "nobody@example.com", &UpdateUserRequest{Username: &newName}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateByEmail() unknown error = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "sara", Email: "sara@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.DeleteByEmail(ctx, "sara@example.com"); err != nil {
		t.Fatalf("DeleteByEmail() error = %v", err)
	}
	if err := svc.DeleteByEmail(ctx, "sara@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("DeleteByEmail() repeat error = %v, want ErrUserNotFound", err)
	}
}
