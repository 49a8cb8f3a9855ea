package gateway

import (
	"context"
	"net/http"
)

// Credentials is what a successful login hands back.
type Credentials struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}

// Login exchanges an email and password for a bearer token. It is a free
// function rather than a Client method because no token exists yet.
func Login(ctx context.Context, baseURL, email, password string, httpClient *http.Client) (*Credentials, error) {
	c := NewClient(baseURL, "", httpClient)

	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
