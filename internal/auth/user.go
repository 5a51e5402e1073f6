package auth

import (
	"context"
	"errors"

	"FruitStore/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCandidate   = errors.New("username and password are required")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a stored account. Password holds a bcrypt hash; records written by
// older tools may still carry cleartext until their next login.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// Session is the signed-in user as persisted under the session key. It never
// carries the password.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

func (u User) Session() Session {
	return Session{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type Repository interface {
	LoadUsers(ctx context.Context) ([]User, bool, error)
	SaveUsers(ctx context.Context, users []User) error
	LoadSession(ctx context.Context) (Session, bool, error)
	SaveSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context) error
	Ping(ctx context.Context) error
}

type KVRepository struct {
	kv      storage.KV
	users   storage.Doc[[]User]
	session storage.Doc[Session]
}

func NewKVRepository(kv storage.KV) *KVRepository {
	return &KVRepository{
		kv:      kv,
		users:   storage.NewDoc[[]User](kv, storage.KeyUsers),
		session: storage.NewDoc[Session](kv, storage.KeySession),
	}
}

func (r *KVRepository) LoadUsers(ctx context.Context) ([]User, bool, error) {
	return r.users.Load(ctx)
}

func (r *KVRepository) SaveUsers(ctx context.Context, users []User) error {
	if users == nil {
		users = []User{}
	}
	return r.users.Save(ctx, users)
}

func (r *KVRepository) LoadSession(ctx context.Context) (Session, bool, error) {
	return r.session.Load(ctx)
}

func (r *KVRepository) SaveSession(ctx context.Context, s Session) error {
	return r.session.Save(ctx, s)
}

func (r *KVRepository) DeleteSession(ctx context.Context) error {
	return r.session.Delete(ctx)
}

func (r *KVRepository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}
