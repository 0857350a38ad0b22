package notes

import (
	"context"
	"encoding/json"
	"net/http"
)

// User is an account on the notes backend.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials are the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the register payload.
type Registration struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// authResponse accepts both {"user": ..., "token": ...} and a bare user.
type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (r *authResponse) UnmarshalJSON(data []byte) error {
	type plain authResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.User == nil {
		var u User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		p.User = &u
	}
	*r = authResponse(p)
	return nil
}

// Login authenticates and, when the API returns a token, uses it for later
// requests.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	if err := Validate(creds); err != nil {
		return nil, err
	}
	var out authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", creds, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.SetToken(out.Token)
	}
	return out.User, nil
}

// Register creates an account. Like Login it keeps a returned token.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := Validate(reg); err != nil {
		return nil, err
	}
	var out authResponse
	if err := c.do(ctx, "register", http.MethodPost, "/register", reg, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.SetToken(out.Token)
	}
	return out.User, nil
}

// Logout ends the session. The token is dropped even if the request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetToken("")
	return c.do(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}

// CurrentUser returns the user the token belongs to. Without a token it
// returns ErrUnauthorized without a request.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	if c.Token() == "" {
		return nil, ErrUnauthorized
	}
	var u User
	if err := c.do(ctx, "user", http.MethodGet, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
