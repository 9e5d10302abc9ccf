package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blognest/internal/config"
	"blognest/internal/model"
	"blognest/internal/service"
)

// stubUserRepo lets tests script the Create outcome; the lookups are not
// exercised by the registration flow.
type stubUserRepo struct {
	createFn func(ctx context.Context, user *model.User) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *model.User) error {
	return model.ErrUserNotFound
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	return model.ErrUserNotFound
}

// fakeAvatarStore records uploads and deletes instead of talking to R2.
type fakeAvatarStore struct {
	uploaded []string
	deleted  []string
}

func (f *fakeAvatarStore) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	key := "avatars/test.jpg"
	f.uploaded = append(f.uploaded, key)
	return &model.UploadResult{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (f *fakeAvatarStore) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func registerForm(t *testing.T, username string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, value := range map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "pw1234",
		"confirm_password": "pw1234",
	} {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("write field %s: %v", field, err)
		}
	}
	fw, err := mw.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write avatar: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestRegister_DuplicateDiscardsUploadedAvatar(t *testing.T) {
	repo := &stubUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrUsernameTaken
		},
	}
	store := &fakeAvatarStore{}
	h := NewAuthHandler(service.NewUserService(repo), nil, nil, store, nil, &config.Config{})

	body, contentType := registerForm(t, "alice")
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if len(store.uploaded) != 1 {
		t.Fatalf("uploads = %d, want 1", len(store.uploaded))
	}
	// The failed insert must not strand the uploaded object.
	if len(store.deleted) != 1 || store.deleted[0] != store.uploaded[0] {
		t.Errorf("deleted = %v, want %v", store.deleted, store.uploaded)
	}
}

func TestRegister_SuccessKeepsUploadedAvatar(t *testing.T) {
	repo := &stubUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	store := &fakeAvatarStore{}
	h := NewAuthHandler(service.NewUserService(repo), nil, nil, store, nil, &config.Config{})

	body, contentType := registerForm(t, "alice")
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}
	if len(store.deleted) != 0 {
		t.Errorf("deleted = %v, want none", store.deleted)
	}
}

func TestRegister_OversizedBody(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil, nil, nil, &config.Config{})

	oversize := bytes.Repeat([]byte("a"), model.MaxAvatarSizeBytes+2*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=frame")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), model.CodeFileTooLarge) {
		t.Errorf("body = %s, want code %s", rr.Body.String(), model.CodeFileTooLarge)
	}
}
