package auth

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"FruitStore/internal/storage"
)

func newTestService(t *testing.T) (*Service, storage.KV) {
	t.Helper()
	kv := storage.NewMemKV()
	s := NewService(NewKVRepository(kv), nil)
	s.HashCost = bcrypt.MinCost
	return s, kv
}

func TestInitializeDefaults(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)

	created, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)
	require.True(t, created)

	users, ok, err := s.Repo.LoadUsers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, users, 2)
	require.Equal(t, "admin", users[0].Username)
	require.Equal(t, RoleAdmin, users[0].Role)
	require.Equal(t, RoleCustomer, users[1].Role)
	require.True(t, isBcryptHash(users[0].Password), "defaults are stored hashed")

	raw, _, _ := kv.Get(ctx, storage.KeyUsers)

	created, err = s.InitializeDefaults(ctx)
	require.NoError(t, err)
	require.False(t, created)
	again, _, _ := kv.Get(ctx, storage.KeyUsers)
	require.Equal(t, raw, again, "a second call changes nothing")

	sess, err := s.Login(ctx, "admin", "123")
	require.NoError(t, err)
	require.Equal(t, "Lịch Đại Ca", sess.FullName)
}

func TestInitializeDefaults_LeavesEmptyListAlone(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	require.NoError(t, kv.Set(ctx, storage.KeyUsers, `[]`))

	created, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)
	require.False(t, created)

	raw, _, _ := kv.Get(ctx, storage.KeyUsers)
	require.Equal(t, `[]`, raw)
}

func TestLogin_LegacyCleartextRecordIsUpgraded(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	require.NoError(t, kv.Set(ctx, storage.KeyUsers,
		`[{"id":1,"username":"admin","password":"123","fullName":"A","phone":"0","role":"admin"}]`))

	sess, err := s.Login(ctx, "admin", "123")
	require.NoError(t, err)
	require.Equal(t, Session{ID: 1, Username: "admin", FullName: "A", Phone: "0", Role: RoleAdmin}, sess)

	users, _, err := s.Repo.LoadUsers(ctx)
	require.NoError(t, err)
	require.True(t, isBcryptHash(users[0].Password))

	_, err = s.Login(ctx, "admin", "123")
	require.NoError(t, err, "the upgraded hash still accepts the same password")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	_, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"nobody", "123"},
		{"Admin", "123"},
		{"", ""},
	} {
		_, err := s.Login(ctx, tc.user, tc.pass)
		require.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.user, tc.pass)
	}

	_, ok, err := kv.Get(ctx, storage.KeySession)
	require.NoError(t, err)
	require.False(t, ok, "failed logins never write a session")
}

func TestLogin_SessionOmitsPasswordAndReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	_, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)

	_, err = s.Login(ctx, "admin", "123")
	require.NoError(t, err)
	_, err = s.Login(ctx, "khach", "123")
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, storage.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, raw, "password")
	require.Contains(t, raw, `"username":"khach"`)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	_, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)

	u, err := s.Register(ctx, Candidate{Username: "lan", Password: "pw", FullName: "Lan", Phone: "09", Role: RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, RoleCustomer, u.Role, "registration never grants admin")
	require.EqualValues(t, 1_700_000_000_000, u.ID)

	twin, err := s.Register(ctx, Candidate{Username: "mai", Password: "pw"})
	require.NoError(t, err)
	require.EqualValues(t, 1_700_000_000_001, twin.ID, "same-millisecond ids do not collide")

	_, err = s.Register(ctx, Candidate{Username: "lan", Password: "other"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	users, _, err := s.Repo.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4, "a rejected registration leaves the list unchanged")

	_, err = s.Login(ctx, "lan", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, Candidate{Username: "  ", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCandidate)
}

func TestRegister_OnAbsentStoreCreatesList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.Register(ctx, Candidate{Username: "lan", Password: "pw"})
	require.NoError(t, err)

	users, ok, err := s.Repo.LoadUsers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, users, 1)
}

func TestRegister_CorruptUsersKeyIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	require.NoError(t, kv.Set(ctx, storage.KeyUsers, `{oops`))

	_, err := s.Register(ctx, Candidate{Username: "lan", Password: "pw"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUsernameTaken)

	raw, _, _ := kv.Get(ctx, storage.KeyUsers)
	require.Equal(t, `{oops`, raw)
}

func TestLogoutAndAdminAccess(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	_, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)

	acc, err := s.CheckAdminAccess(ctx)
	require.NoError(t, err)
	require.False(t, acc.Allowed)
	require.Equal(t, HomeEntryPoint, acc.Redirect)
	require.Equal(t, AdminDeniedNotice, acc.Notice)
	require.Equal(t, "Khu vực cấm! Chỉ dành cho Admin.", acc.Notice)

	_, err = s.Login(ctx, "khach", "123")
	require.NoError(t, err)
	acc, err = s.CheckAdminAccess(ctx)
	require.NoError(t, err)
	require.False(t, acc.Allowed)

	_, err = s.Login(ctx, "admin", "123")
	require.NoError(t, err)
	acc, err = s.CheckAdminAccess(ctx)
	require.NoError(t, err)
	require.True(t, acc.Allowed)
	require.Equal(t, "admin", acc.User.Username)

	redirect, err := s.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, AuthEntryPoint, redirect)

	_, ok, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Logout(ctx)
	require.NoError(t, err, "logging out twice is harmless")
}

func TestCurrentUser_UnreadableSessionIsSignedOut(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestService(t)
	require.NoError(t, kv.Set(ctx, storage.KeySession, `not json`))

	_, ok, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAttemptMetrics(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	s.Metrics = NewMetrics(prometheus.NewRegistry())
	_, err := s.InitializeDefaults(ctx)
	require.NoError(t, err)

	_, _ = s.Login(ctx, "admin", "123")
	_, _ = s.Login(ctx, "admin", "nope")
	_, _ = s.Register(ctx, Candidate{Username: "admin", Password: "x"})

	require.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.Attempts.WithLabelValues(opLogin, resultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.Attempts.WithLabelValues(opLogin, resultDenied)))
	require.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.Attempts.WithLabelValues(opRegister, resultDenied)))
}

func TestTokenMaker(t *testing.T) {
	tm := NewTokenMaker("secret")
	sess := Session{ID: 7, Username: "lan", Role: RoleCustomer}

	tok, err := tm.New(sess, time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	require.EqualValues(t, 7, c.UserID)
	require.Equal(t, "lan", c.Username)
	require.NotEmpty(t, c.ID)

	_, err = NewTokenMaker("other").Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := tm.New(sess, time.Minute)
	require.NoError(t, err)
	tm.now = time.Now
	_, err = tm.Parse(expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}
