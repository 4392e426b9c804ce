package services

import (
	"fmt"
	"testing"
	"time"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository keyed by user ID.
type fakeUserRepo struct {
	users  map[int64]models.User
	hashes map[int64]string
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]models.User{}, hashes: map[int64]string{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return 0, fmt.Errorf("%w: duplicate (constraint: users_username_key)", repositories.ErrDuplicateKey)
		}
		if existing.Email == user.Email {
			return 0, fmt.Errorf("%w: duplicate (constraint: users_email_key)", repositories.ErrDuplicateKey)
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	f.hashes[user.ID] = hashedPassword
	return user.ID, nil
}

func (f *fakeUserRepo) GetAll() ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByLogin(login string) (*models.User, string, error) {
	for id, u := range f.users {
		if u.Username == login || u.Email == login {
			user := u
			return &user, f.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id int64, hashedPassword string) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrNotFound
	}
	f.hashes[id] = hashedPassword
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(id int64, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.LastLogin = &at
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(id int64) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.users, id)
	delete(f.hashes, id)
	return nil
}

const testJWTSecret = "unit-test-secret"

func newTestAuthService() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, time.Hour)
	return svc, repo
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string, role models.Role, active bool) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id, err := repo.Create(nil, &models.User{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: active,
	}, string(hash))
	require.NoError(t, err)
	return id
}

func TestRegisterUserDefaultsToUserRole(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username:  "anna",
		Email:     "Anna@Example.com",
		Password:  "longenough",
		FirstName: "Anna",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.True(t, user.IsActive)
}

func TestRegisterUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.RegisterUser(RegisterUserRequest{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "longenough",
		FirstName: "Bob",
		Role:      "superadmin",
	})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRegisterUserRejectsElevatedRoles(t *testing.T) {
	svc, repo := newTestAuthService()

	for _, role := range []string{"admin", "pharmacist", "Admin"} {
		_, err := svc.RegisterUser(RegisterUserRequest{
			Username:  "sneaky",
			Email:     "sneaky@example.com",
			Password:  "longenough",
			FirstName: "Sneaky",
			Role:      role,
		})
		assert.ErrorIs(t, err, ErrRoleNotAllowed, "role %q must not be self-assignable", role)
	}
	assert.Empty(t, repo.users, "no account may be created with an elevated role")
}

func TestRegisterUserAcceptsExplicitUserRole(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username:  "plain",
		Email:     "plain@example.com",
		Password:  "longenough",
		FirstName: "Plain",
		Role:      "user",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	svc, repo := newTestAuthService()
	seedUser(t, repo, "taken", "taken@example.com", "password1", models.RoleUser, true)

	_, err := svc.RegisterUser(RegisterUserRequest{
		Username:  "taken",
		Email:     "other@example.com",
		Password:  "longenough",
		FirstName: "Other",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	svc, repo := newTestAuthService()
	seedUser(t, repo, "first", "shared@example.com", "password1", models.RoleUser, true)

	_, err := svc.RegisterUser(RegisterUserRequest{
		Username:  "second",
		Email:     "shared@example.com",
		Password:  "longenough",
		FirstName: "Second",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	svc, repo := newTestAuthService()
	seedUser(t, repo, "carol", "carol@example.com", "s3cretpass", models.RolePharmacist, true)

	for _, login := range []string{"carol", "carol@example.com"} {
		resp, err := svc.LoginUser(LoginRequest{Login: login, Password: "s3cretpass"})
		require.NoError(t, err, "login %q", login)
		require.NotNil(t, resp.User)
		assert.Equal(t, "carol", resp.User.Username)
		assert.NotEmpty(t, resp.AccessToken)

		claims, err := utils.ValidateToken([]byte(testJWTSecret), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, string(models.RolePharmacist), claims.Role)
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	svc, repo := newTestAuthService()
	id := seedUser(t, repo, "dave", "dave@example.com", "s3cretpass", models.RoleUser, true)

	resp, err := svc.LoginUser(LoginRequest{Login: "dave", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.NotNil(t, resp.User.LastLogin)

	stored, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newTestAuthService()
	seedUser(t, repo, "erin", "erin@example.com", "rightpass", models.RoleUser, true)

	_, err := svc.LoginUser(LoginRequest{Login: "erin", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.LoginUser(LoginRequest{Login: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUserLooksLikeBadCredentials(t *testing.T) {
	svc, repo := newTestAuthService()
	seedUser(t, repo, "frank", "frank@example.com", "s3cretpass", models.RoleAdmin, false)

	_, err := svc.LoginUser(LoginRequest{Login: "frank", Password: "s3cretpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserProfile(t *testing.T) {
	svc, repo := newTestAuthService()
	id := seedUser(t, repo, "grace", "grace@example.com", "s3cretpass", models.RoleAdmin, true)

	user, err := svc.GetUserProfile(id)
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Username)

	_, err = svc.GetUserProfile(id + 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
