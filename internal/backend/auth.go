package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"golang.org/x/net/publicsuffix"

	"travelFront/internal/models"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// Session is a cookie scoped conversation with the auth endpoints on
// behalf of one user. A CSRF token is fetched before every mutating call.
type Session struct {
	client *Client
	http   *http.Client
	jar    http.CookieJar
}

// NewSession starts a session seeded with previously saved cookies.
func (c *Client) NewSession(cookies []models.BackendCookie) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("backend: cookie jar: %w", err)
	}
	if len(cookies) > 0 {
		hc := make([]*http.Cookie, 0, len(cookies))
		for _, ck := range cookies {
			hc = append(hc, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
		}
		jar.SetCookies(c.baseURL, hc)
	}

	hc := *c.httpClient
	hc.Jar = jar
	return &Session{client: c, http: &hc, jar: jar}, nil
}

// Cookies returns the cookies the backend set during this session.
func (s *Session) Cookies() []models.BackendCookie {
	var out []models.BackendCookie
	for _, ck := range s.jar.Cookies(s.client.baseURL) {
		out = append(out, models.BackendCookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// CSRFToken asks the backend for a token and reads it from the csrftoken
// cookie, falling back to the response body.
func (s *Session) CSRFToken(ctx context.Context) (string, error) {
	body, err := s.client.get(ctx, s.http, "/api/auth/csrf-token/", nil)
	if err != nil {
		return "", err
	}
	for _, ck := range s.jar.Cookies(s.client.baseURL) {
		if ck.Name == csrfCookieName && ck.Value != "" {
			return ck.Value, nil
		}
	}
	var payload struct {
		CSRFToken string `json:"csrfToken"`
		Token     string `json:"csrf_token"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.CSRFToken != "" {
			return payload.CSRFToken, nil
		}
		if payload.Token != "" {
			return payload.Token, nil
		}
	}
	return "", errors.New("backend: csrf token not issued")
}

func (s *Session) post(ctx context.Context, p string, payload any) ([]byte, error) {
	token, err := s.CSRFToken(ctx)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, fmt.Errorf("backend: encode payload: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.endpoint(p, nil), &body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(csrfHeaderName, token)
	req.Header.Set("Referer", s.client.baseURL.String())
	return s.client.do(s.http, req)
}

type userEnvelope struct {
	User  *models.User `json:"user"`
	Error string       `json:"error"`
}

func decodeUser(body []byte) (models.User, error) {
	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.User{}, fmt.Errorf("backend: decode user: %w", err)
	}
	if env.Error != "" {
		return models.User{}, fmt.Errorf("backend: %s", env.Error)
	}
	if env.User == nil {
		return models.User{}, errors.New("backend: response carries no user")
	}
	return *env.User, nil
}

func (s *Session) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	body, err := s.post(ctx, "/api/auth/login/", creds)
	if err != nil {
		if IsStatus(err, http.StatusBadRequest) || IsStatus(err, http.StatusUnauthorized) {
			return models.User{}, fmt.Errorf("%w: %v", models.ErrInvalidCredentials, err)
		}
		return models.User{}, err
	}
	return decodeUser(body)
}

// Register creates an account. The username is the local part of the email.
func (s *Session) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	username := reg.Email
	if i := strings.Index(username, "@"); i > 0 {
		username = username[:i]
	}
	payload := map[string]string{
		"username": username,
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
	}
	body, err := s.post(ctx, "/api/auth/register/", payload)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(body)
}

func (s *Session) Logout(ctx context.Context) error {
	_, err := s.post(ctx, "/api/auth/logout/", nil)
	return err
}

func (s *Session) Profile(ctx context.Context) (models.User, error) {
	body, err := s.client.get(ctx, s.http, "/api/auth/profile/", nil)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
			return models.User{}, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
		}
		return models.User{}, err
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return models.User{}, fmt.Errorf("backend: decode profile: %w", err)
	}
	return user, nil
}
