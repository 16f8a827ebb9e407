package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

// memUserRepo — хранилище пользователей и сессий в памяти.
type memUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	sessions map[string]*models.Session
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:    make(map[uuid.UUID]*models.User),
		sessions: make(map[string]*models.Session),
	}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = uuid.New()
	user.IsActive = true
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (r *memUserRepo) CreateSession(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = uuid.New()
	copied := *session
	r.sessions[session.RefreshToken] = &copied
	return nil
}

func (r *memUserRepo) GetSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[refreshToken]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *memUserRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, refreshToken)
	return nil
}

func newAuthServiceForTest() (*AuthService, *memUserRepo) {
	repo := newMemUserRepo()
	manager := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(repo, manager), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Иван",
		Email:    "ivan@example.com",
		Password: "secret123",
	}, nil)
	if err != nil {
		t.Fatalf("Register: неожиданная ошибка %v", err)
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("пара токенов не выпущена при регистрации")
	}

	login, err := svc.Login(context.Background(), LoginInput{
		Email:    "ivan@example.com",
		Password: "secret123",
	}, nil)
	if err != nil {
		t.Fatalf("Login: неожиданная ошибка %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Error("логин вернул другого пользователя")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	in := RegisterInput{Name: "Иван", Email: "ivan@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), in, nil); err != nil {
		t.Fatalf("Register: неожиданная ошибка %v", err)
	}

	_, err := svc.Register(context.Background(), in, nil)
	if !errors.Is(err, apperror.ErrEmailTaken) {
		t.Fatalf("ожидался ErrEmailTaken, получено %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Иван",
		Email:    "ivan@example.com",
		Password: "secret123",
	}, nil); err != nil {
		t.Fatalf("Register: неожиданная ошибка %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ivan@example.com",
		Password: "wrong-password",
	}, nil)
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("ожидался ErrInvalidCredentials, получено %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	// Несуществующий email неотличим от неверного пароля.
	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "secret123",
	}, nil)
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("ожидался ErrInvalidCredentials, получено %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repo := newAuthServiceForTest()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Иван",
		Email:    "ivan@example.com",
		Password: "secret123",
	}, nil)
	if err != nil {
		t.Fatalf("Register: неожиданная ошибка %v", err)
	}

	oldToken := result.TokenPair.RefreshToken
	refreshed, err := svc.Refresh(context.Background(), oldToken, nil)
	if err != nil {
		t.Fatalf("Refresh: неожиданная ошибка %v", err)
	}
	if refreshed.TokenPair.RefreshToken == oldToken {
		t.Error("refresh токен не ротировался")
	}

	// Старая сессия закрыта, повторный refresh тем же токеном не проходит.
	if _, err := repo.GetSession(context.Background(), oldToken); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Errorf("старая сессия должна быть закрыта, получено %v", err)
	}
	if _, err := svc.Refresh(context.Background(), oldToken, nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("ожидался ErrUnauthorized, получено %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"пустой email", RegisterInput{Name: "Иван", Email: "", Password: "secret123"}},
		{"email без @", RegisterInput{Name: "Иван", Email: "ivan.example.com", Password: "secret123"}},
		{"короткое имя", RegisterInput{Name: "И", Email: "ivan@example.com", Password: "secret123"}},
		{"короткий пароль", RegisterInput{Name: "Иван", Email: "ivan@example.com", Password: "123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in, nil)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeValidation {
				t.Fatalf("ожидалась ошибка валидации, получено %v", err)
			}
		})
	}
}
