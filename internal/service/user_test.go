package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blognest/internal/model"
)

// mockUserRepository implements repository.UserRepository with per-test
// function fields, so each test controls exactly what the store returns.
type mockUserRepository struct {
	createFn         func(ctx context.Context, user *model.User) error
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	updateFn         func(ctx context.Context, user *model.User) error
	updatePasswordFn func(ctx context.Context, userID int64, passwordHashed string) error

	// Track calls for assertions
	createCalls    int
	passwordHashes []string
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	m.passwordHashes = append(m.passwordHashes, passwordHashed)
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHashed)
	}
	return nil
}

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo)

	req := &model.RegisterRequest{
		Username: "alice",
		Email:    "Alice@X.com",
		Password: "pw123456",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}

	// Email is normalized to lower case before storage
	if user.Email != "alice@x.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@x.com")
	}

	// Verify password was hashed, not stored as plaintext
	if user.PasswordHashed == req.Password || user.PasswordHashed == "" {
		t.Error("password should be hashed, not empty or plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should verify against the original password")
	}

	if mockRepo.createCalls != 1 {
		t.Errorf("Create called %d times, want 1", mockRepo.createCalls)
	}
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrUsernameTaken
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw123456",
	})
	if !errors.Is(err, model.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrEmailTaken
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice2",
		Email:    "alice@x.com",
		Password: "pw123456",
	})
	if !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func storedUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &model.User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@x.com",
		PasswordHashed: string(hash),
	}
}

func TestUserService_Login_Success(t *testing.T) {
	existing := storedUser(t, "pw123456")
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email != "alice@x.com" {
				return nil, model.ErrUserNotFound
			}
			return existing, nil
		},
	}
	svc := NewUserService(mockRepo)

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Alice@X.com",
		Password: "pw123456",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != existing.ID {
		t.Errorf("user ID = %d, want %d", user.ID, existing.ID)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	existing := storedUser(t, "pw123456")
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return existing, nil
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@x.com",
		Password: "wrong",
	})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	// The repository returns ErrUserNotFound; the service must not leak
	// that distinction to the caller.
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@x.com",
		Password: "pw123456",
	})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_ChangePassword_StoresNewHash(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo)

	if err := svc.ChangePassword(context.Background(), 1, "newpassword"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.passwordHashes) != 1 {
		t.Fatalf("UpdatePassword called %d times, want 1", len(mockRepo.passwordHashes))
	}
	hash := mockRepo.passwordHashes[0]
	if hash == "newpassword" || hash == "" {
		t.Fatal("stored hash must not be empty or the plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")); err != nil {
		t.Error("stored hash should verify against the new password")
	}
}

func TestUserService_UpdateAccount_ReplacesAvatar(t *testing.T) {
	oldKey := "avatars/old.jpg"
	existing := storedUser(t, "pw123456")
	existing.AvatarKey = &oldKey

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return existing, nil
		},
	}
	svc := NewUserService(mockRepo)

	newURL := "https://cdn.example.com/avatars/new.jpg"
	newKey := "avatars/new.jpg"
	user, replaced, err := svc.UpdateAccount(context.Background(), 1, &model.UpdateAccountRequest{
		Username:  "alice",
		Email:     "alice@x.com",
		AvatarURL: &newURL,
		AvatarKey: &newKey,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if replaced == nil || *replaced != oldKey {
		t.Errorf("replaced key = %v, want %q", replaced, oldKey)
	}
	if user.AvatarKey == nil || *user.AvatarKey != newKey {
		t.Errorf("avatar key = %v, want %q", user.AvatarKey, newKey)
	}
}

func TestUserService_UpdateAccount_DuplicateEmail(t *testing.T) {
	existing := storedUser(t, "pw123456")
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			return model.ErrEmailTaken
		},
	}
	svc := NewUserService(mockRepo)

	_, _, err := svc.UpdateAccount(context.Background(), 1, &model.UpdateAccountRequest{
		Username: "alice",
		Email:    "bob@x.com",
	})
	if !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}
