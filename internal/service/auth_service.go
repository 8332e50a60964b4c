package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/community-api/configs"
	"github.com/maheshrc27/community-api/internal/models"
	"github.com/maheshrc27/community-api/internal/repository"
	"github.com/maheshrc27/community-api/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Email is an outbound transactional message.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Name     string `json:"name"`
}

// Mailer hands an email to the delivery pipeline. Callers never fail because
// of it.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type AuthService interface {
	AuthURL(state string) string
	LoginCallback(ctx context.Context, code string) (*models.User, error)
}

type profileFetcher func(ctx context.Context, code string) (*transfer.GoogleUserInfo, error)

type authService struct {
	oauth  *oauth2.Config
	u      repository.UserRepository
	mailer Mailer
	fetch  profileFetcher
}

func NewAuthService(cfg config.Config, u repository.UserRepository, mailer Mailer) AuthService {
	s := &authService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		u:      u,
		mailer: mailer,
	}
	s.fetch = s.fetchGoogleProfile
	return s
}

func (s *authService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (*models.User, error) {
	const op = "login"

	if code == "" {
		return nil, validationError(op, "authorization code is empty")
	}

	info, err := s.fetch(ctx, code)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: op, Message: "unable to verify google account", Err: err}
	}
	if info.Email == "" {
		return nil, validationError(op, "google account has no email address")
	}

	user, isExist, err := s.u.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, unavailableError(op, err)
	}

	if isExist {
		if user.GoogleID == "" {
			user.GoogleID = info.ID
			if err := s.u.Update(ctx, user); err != nil {
				return nil, unavailableError(op, err)
			}
		}
		return user, nil
	}

	user = &models.User{
		GoogleID:       info.ID,
		Email:          info.Email,
		Name:           info.Name,
		ProfilePicture: models.MediaRef{URL: info.Picture},
		Role:           models.RoleUser,
	}
	if _, err := s.u.Create(ctx, user); err != nil {
		return nil, unavailableError(op, err)
	}

	if s.mailer != nil {
		err := s.mailer.Send(ctx, Email{To: user.Email, Subject: "Welcome to the community", Template: "welcome", Name: user.Name})
		if err != nil {
			slog.Warn("unable to queue welcome email", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

func (s *authService) fetchGoogleProfile(ctx context.Context, code string) (*transfer.GoogleUserInfo, error) {
	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" || s.oauth.RedirectURL == "" {
		return nil, errors.New("OAuth2 configuration is incomplete")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	api, err := googleoauth.NewService(ctx, option.WithHTTPClient(s.oauth.Client(ctx, token)))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	info, err := api.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error fetching user info: %w", err)
	}

	return &transfer.GoogleUserInfo{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
