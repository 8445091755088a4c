package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"travelFront/internal/models"
	"travelFront/internal/repositories"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService signs users in against the backend and hands the browser a
// session token. The backend cookies stay on the server, keyed by the
// token id.
type AuthService struct {
	Backend  AuthBackend
	Sessions *repositories.BackendSessionRepository
	Revoked  *repositories.RevocationRepository
	Secret   []byte
	TokenTTL time.Duration

	log Logger
	now func() time.Time
}

func NewAuthService(backend AuthBackend, store repositories.KVStore, secret []byte, ttl time.Duration, logger Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		Backend:  backend,
		Sessions: &repositories.BackendSessionRepository{Store: store},
		Revoked:  &repositories.RevocationRepository{Store: store},
		Secret:   secret,
		TokenTTL: ttl,
		log:      loggerOrNop(logger),
		now:      time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	session, err := s.Backend.NewSession(nil)
	if err != nil {
		return models.Session{}, err
	}
	user, err := session.Login(ctx, creds)
	if err != nil {
		return models.Session{}, err
	}
	return s.issue(ctx, user, session.Cookies())
}

func (s *AuthService) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	session, err := s.Backend.NewSession(nil)
	if err != nil {
		return models.Session{}, err
	}
	user, err := session.Register(ctx, reg)
	if err != nil {
		return models.Session{}, err
	}
	return s.issue(ctx, user, session.Cookies())
}

func (s *AuthService) issue(ctx context.Context, user models.User, cookies []models.BackendCookie) (models.Session, error) {
	now := s.now()
	expires := now.Add(s.TokenTTL)
	claims := &models.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expires.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Sessions.Save(ctx, claims.Id, cookies, s.TokenTTL); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return models.Session{Token: token, ExpiresAt: expires.Unix(), User: user}, nil
}

// ParseToken validates a session token and rejects revoked ones.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	if claims.Id == "" {
		return nil, models.ErrUnauthenticated
	}
	revoked, err := s.Revoked.IsRevoked(ctx, claims.Id)
	if err != nil {
		s.log.Errorf("auth: revocation lookup %s: %v", claims.Id, err)
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if revoked {
		return nil, models.ErrTokenRevoked
	}
	return claims, nil
}

// Profile asks the backend for the current profile using the saved cookies.
func (s *AuthService) Profile(ctx context.Context, claims *models.Claims) (models.User, error) {
	cookies, err := s.Sessions.Load(ctx, claims.Id)
	if errors.Is(err, models.ErrNoRecord) {
		return models.User{}, models.ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	session, err := s.Backend.NewSession(cookies)
	if err != nil {
		return models.User{}, err
	}
	return session.Profile(ctx)
}

// Logout revokes the token and ends the backend session. A failing backend
// logout is logged only; the token is revoked either way.
func (s *AuthService) Logout(ctx context.Context, claims *models.Claims) error {
	until := time.Unix(claims.ExpiresAt, 0)
	if err := s.Revoked.Revoke(ctx, claims.Id, until); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	cookies, err := s.Sessions.Load(ctx, claims.Id)
	if err != nil {
		if !errors.Is(err, models.ErrNoRecord) {
			s.log.Errorf("auth: load backend session %s: %v", claims.Id, err)
		}
		return nil
	}
	if err := s.Sessions.Delete(ctx, claims.Id); err != nil {
		s.log.Errorf("auth: drop backend session %s: %v", claims.Id, err)
	}
	session, err := s.Backend.NewSession(cookies)
	if err != nil {
		s.log.Errorf("auth: backend session: %v", err)
		return nil
	}
	if err := session.Logout(ctx); err != nil {
		s.log.Errorf("auth: backend logout for user %d: %v", claims.UserID, err)
	}
	return nil
}
