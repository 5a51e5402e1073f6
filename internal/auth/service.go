package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Entry points returned to the presenter as redirect targets.
const (
	AuthEntryPoint = "auth.html"
	HomeEntryPoint = "index.html"
)

const AdminDeniedNotice = "Khu vực cấm! Chỉ dành cho Admin."

const defaultPassword = "123"

func defaultUsers() []User {
	return []User{
		{ID: 1, Username: "admin", Password: defaultPassword, FullName: "Lịch Đại Ca", Phone: "0988888888", Role: RoleAdmin},
		{ID: 2, Username: "khach", Password: defaultPassword, FullName: "Khách Mua Hàng", Phone: "0912345678", Role: RoleCustomer},
	}
}

// Candidate is a registration request. Role is accepted but ignored.
type Candidate struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role,omitempty"`
}

// Access is the outcome of the admin gate. It is advisory: the presenter
// shows Notice and navigates to Redirect when Allowed is false.
type Access struct {
	Allowed  bool     `json:"allowed"`
	User     *Session `json:"user,omitempty"`
	Notice   string   `json:"notice,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

type Service struct {
	Repo     Repository
	Log      *zap.Logger
	Metrics  *Metrics
	HashCost int

	// mu serializes read-modify-write of the user list within this process.
	// Other writers sharing the store still race with last-write-wins.
	mu  sync.Mutex
	now func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Repo:     repo,
		Log:      log,
		HashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// InitializeDefaults writes the two default accounts only when the users key
// is absent. An existing list, even an empty one, is left alone.
func (s *Service) InitializeDefaults(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.Repo.LoadUsers(ctx)
	switch {
	case err != nil && !ok:
		return false, fmt.Errorf("load users: %w", err)
	case err != nil:
		s.Log.Warn("users key is unreadable, leaving it untouched", zap.Error(err))
		return false, nil
	case ok:
		return false, nil
	}

	users := defaultUsers()
	for i := range users {
		h, err := hashPassword(users[i].Password, s.HashCost)
		if err != nil {
			return false, fmt.Errorf("hash default password: %w", err)
		}
		users[i].Password = h
	}
	if err := s.Repo.SaveUsers(ctx, users); err != nil {
		return false, fmt.Errorf("save users: %w", err)
	}
	s.Log.Info("default users created", zap.Int("count", len(users)))
	return true, nil
}

// Login matches username exactly and case-sensitively. Every mismatch yields
// ErrInvalidCredentials. On success the session replaces any previous one.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		s.Metrics.observe(opLogin, resultError)
		return Session{}, err
	}

	for i, u := range users {
		if u.Username != username {
			continue
		}
		ok, legacy := checkPassword(u.Password, password)
		if !ok {
			continue
		}
		if legacy {
			s.upgradePassword(ctx, users, i, password)
		}

		sess := u.Session()
		if err := s.Repo.SaveSession(ctx, sess); err != nil {
			s.Metrics.observe(opLogin, resultError)
			return Session{}, fmt.Errorf("save session: %w", err)
		}
		s.Metrics.observe(opLogin, resultOK)
		s.Log.Info("login", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
		return sess, nil
	}

	s.Metrics.observe(opLogin, resultDenied)
	return Session{}, ErrInvalidCredentials
}

// upgradePassword replaces a cleartext record with its hash. Failure only
// costs the upgrade; the login itself still succeeds.
func (s *Service) upgradePassword(ctx context.Context, users []User, i int, password string) {
	h, err := hashPassword(password, s.HashCost)
	if err != nil {
		s.Log.Warn("password upgrade failed", zap.Error(err))
		return
	}
	users[i].Password = h
	if err := s.Repo.SaveUsers(ctx, users); err != nil {
		s.Log.Warn("password upgrade not saved", zap.Error(err), zap.Int64("user_id", users[i].ID))
		return
	}
	s.Log.Info("legacy password upgraded", zap.Int64("user_id", users[i].ID))
}

// Register appends a customer account. The requested role is discarded.
func (s *Service) Register(ctx context.Context, c Candidate) (User, error) {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		s.Metrics.observe(opRegister, resultDenied)
		return User{}, ErrInvalidCandidate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		s.Metrics.observe(opRegister, resultError)
		return User{}, err
	}
	for _, u := range users {
		if u.Username == c.Username {
			s.Metrics.observe(opRegister, resultDenied)
			return User{}, ErrUsernameTaken
		}
	}

	h, err := hashPassword(c.Password, s.HashCost)
	if err != nil {
		s.Metrics.observe(opRegister, resultError)
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:       nextID(users, s.now()),
		Username: c.Username,
		Password: h,
		FullName: c.FullName,
		Phone:    c.Phone,
		Role:     RoleCustomer,
	}
	if err := s.Repo.SaveUsers(ctx, append(users, u)); err != nil {
		s.Metrics.observe(opRegister, resultError)
		return User{}, fmt.Errorf("save users: %w", err)
	}

	s.Metrics.observe(opRegister, resultOK)
	s.Log.Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// nextID uses the clock in milliseconds, bumped past the largest existing id
// when two registrations land in the same millisecond.
func nextID(users []User, now time.Time) int64 {
	id := now.UnixMilli()
	for _, u := range users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	return id
}

// CurrentUser reads the session without side effects. A session record that
// no longer decodes counts as signed out.
func (s *Service) CurrentUser(ctx context.Context) (Session, bool, error) {
	sess, ok, err := s.Repo.LoadSession(ctx)
	switch {
	case err != nil && !ok:
		return Session{}, false, fmt.Errorf("load session: %w", err)
	case err != nil:
		s.Log.Warn("session record unreadable", zap.Error(err))
		return Session{}, false, nil
	}
	return sess, ok, nil
}

// Logout clears the session and returns where the presenter should go next.
func (s *Service) Logout(ctx context.Context) (string, error) {
	if err := s.Repo.DeleteSession(ctx); err != nil {
		return "", fmt.Errorf("delete session: %w", err)
	}
	return AuthEntryPoint, nil
}

func (s *Service) CheckAdminAccess(ctx context.Context) (Access, error) {
	sess, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return Access{}, err
	}
	if !ok || !sess.IsAdmin() {
		return Access{Notice: AdminDeniedNotice, Redirect: HomeEntryPoint}, nil
	}
	return Access{Allowed: true, User: &sess}, nil
}

// users loads the account list. An absent key reads as empty; a corrupt one
// is an error so it is never silently overwritten.
func (s *Service) users(ctx context.Context) ([]User, error) {
	users, _, err := s.Repo.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}
