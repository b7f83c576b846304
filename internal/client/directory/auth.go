package directory

import "context"

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

// SignUp creates an account and returns an authenticated session.
func (c *Client) SignUp(ctx context.Context, login, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/signup", login, password)
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, login, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/login", login, password)
}

func (c *Client) authenticate(ctx context.Context, path, login, password string) (*Session, error) {
	var resp sessionResponse
	err := c.do(ctx, nil, "POST", path, nil, &credentialsRequest{Login: login, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.UserID == "" {
		return nil, &DirectoryError{Status: 200, Message: "session response missing token or user id"}
	}
	return &Session{AccessToken: resp.AccessToken, UserID: resp.UserID}, nil
}
