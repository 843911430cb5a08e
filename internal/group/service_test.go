package group

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/attendly/internal/user"
)

// fakeStore is an in-memory Store
type fakeStore struct {
	nextID  int64
	groups  map[int64]*Group
	members map[int64]map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:  make(map[int64]*Group),
		members: make(map[int64]map[int64]bool),
	}
}

func (f *fakeStore) Create(ctx context.Context, name, description string, ownerID int64) (*Group, error) {
	for _, g := range f.groups {
		if g.Name == name {
			return nil, &pq.Error{Code: "23505"}
		}
	}
	f.nextID++
	g := &Group{
		ID:          f.nextID,
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Group, error) {
	return f.groups[id], nil
}

func (f *fakeStore) List(ctx context.Context) ([]*Group, error) {
	var out []*Group
	for _, g := range f.groups {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeStore) AddMember(ctx context.Context, groupID, userID int64) error {
	if f.members[groupID] == nil {
		f.members[groupID] = make(map[int64]bool)
	}
	f.members[groupID][userID] = true
	return nil
}

func (f *fakeStore) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	var out []*Member
	for userID := range f.members[groupID] {
		out = append(out, &Member{GroupID: groupID, UserID: userID})
	}
	return out, nil
}

func (f *fakeStore) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var out []int64
	for userID := range f.members[groupID] {
		out = append(out, userID)
	}
	return out, nil
}

// fakeUsers is an in-memory UserDirectory
type fakeUsers struct {
	users map[int64]*user.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return f.users[id], nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, Username: "sara", Role: user.RoleMember},
	}}
	return NewService(store, users), store
}

func TestCreateGroup(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.Create(context.Background(), 7, &CreateGroupRequest{Name: "  go-study  ", Description: "weekly"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.Name != "go-study" {
		t.Errorf("Name = %q, want trimmed %q", g.Name, "go-study")
	}
	if g.OwnerID != 7 {
		t.Errorf("OwnerID = %d, want 7", g.OwnerID)
	}
}

func TestCreateGroupNameRequired(t *testing.T) {
	svc, _ := newTestService()

	tests := []string{"", "   "}
	for _, name := range tests {
		if _, err := svc.Create(context.Background(), 7, &CreateGroupRequest{Name: name}); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Create(%q) error = %v, want ErrNameRequired", name, err)
		}
	}
}

func TestCreateGroupNameTaken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 7, &CreateGroupRequest{Name: "go-study"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, 8, &CreateGroupRequest{Name: "go-study"}); !errors.Is(err, ErrNameTaken) {
		t.Errorf("Create() duplicate error = %v, want ErrNameTaken", err)
	}
}

func TestAddMember(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	g, err := svc.Create(ctx, 7, &CreateGroupRequest{Name: "go-study"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.AddMember(ctx, g.ID, 1); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	// Adding the same member again is a no-op, not an error
	if err := svc.AddMember(ctx, g.ID, 1); err != nil {
		t.Fatalf("AddMember() repeat error = %v", err)
	}
	if got := len(store.members[g.ID]); got != 1 {
		t.Errorf("member count = %d, want 1", got)
	}
}

func TestAddMemberRejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	g, err := svc.Create(ctx, 7, &CreateGroupRequest{Name: "go-study"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.AddMember(ctx, int64(999), 1); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("unknown group: error = %v, want ErrGroupNotFound", err)
	}
	if err := svc.AddMember(ctx, g.ID, int64(999)); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: error = %v, want ErrUserNotFound", err)
	}
}

func TestGetMembers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	g, err := svc.Create(ctx, 7, &CreateGroupRequest{Name: "go-study"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.AddMember(ctx, g.ID, 1); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	members, err := svc.GetMembers(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetMembers() error = %v", err)
	}
	if len(members) != 1 || members[0].UserID != 1 {
		t.Errorf("GetMembers() = %+v, want one entry for user 1", members)
	}

	if _, err := svc.GetMembers(ctx, int64(999)); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("unknown group: error = %v, want ErrGroupNotFound", err)
	}
}
