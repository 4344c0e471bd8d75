package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/forms"
	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/session"
)

// AuthAPI is the upstream login surface.
type AuthAPI interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.TokenResponse, error)
	Register(ctx context.Context, in models.RegisterRequest) (*models.TokenResponse, error)
}

type AuthService struct {
	api       AuthAPI
	state     *session.AppState
	validator *forms.Validator
	logger    *slog.Logger
}

func NewAuthService(api AuthAPI, state *session.AppState, validator *forms.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{api: api, state: state, validator: validator, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, in models.LoginRequest) (*models.User, error) {
	if err := s.validator.Login(in); err != nil {
		return nil, formError(err)
	}
	resp, err := s.api.Login(ctx, in)
	if err != nil {
		return nil, errors.UnauthorizedWrap(err, "Login failed")
	}
	return s.signIn(resp, "")
}

func (s *AuthService) Register(ctx context.Context, in models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Register(in); err != nil {
		return nil, formError(err)
	}
	resp, err := s.api.Register(ctx, in)
	if err != nil {
		return nil, errors.BadRequestWrap(err, "Registration failed")
	}
	return s.signIn(resp, in.Name)
}

func (s *AuthService) Logout() error {
	if err := s.state.SignOut(); err != nil {
		return errors.InternalWrap(err, "Failed to clear session")
	}
	return nil
}

// signIn stores the token and profile. name fills in when the upstream
// response omits it.
func (s *AuthService) signIn(resp *models.TokenResponse, name string) (*models.User, error) {
	u := &models.User{
		OwnerID:          resp.OwnerID,
		Email:            resp.Email,
		Name:             resp.Name,
		SubscriptionTier: resp.SubscriptionTier,
	}
	if u.Name == "" {
		u.Name = name
	}
	if err := s.state.SignIn(resp.AccessToken, u); err != nil {
		return nil, errors.InternalWrap(err, "Failed to persist session")
	}
	s.logger.Info("owner signed in", "owner_id", u.OwnerID)
	return u, nil
}

func formError(err error) error {
	var fe forms.FieldErrors
	if stderrors.As(err, &fe) {
		return errors.ValidationFields("Please correct the highlighted fields", fe)
	}
	return errors.ValidationWrap(err, "Invalid form")
}
