package models

import (
	"encoding/json"
	"errors"
)

var ErrNoToken = errors.New("login response carries neither key nor token")

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the dj-rest-auth registration body.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Nickname  string `json:"nickname,omitempty"`
	Age       *int64 `json:"age,omitempty"`
	Salary    *int64 `json:"salary,omitempty"`
	Assets    *int64 `json:"assets,omitempty"`
}

// LoginResponse is the login reply. Two backend variants exist: the token
// auth backend answers {"key": "..."}, the older one {"token": "..."}.
// AccessToken picks key first, then token.
type LoginResponse struct {
	Key   string `json:"key,omitempty"`
	Token string `json:"token,omitempty"`
}

// AccessToken returns the token by precedence key > token.
func (r LoginResponse) AccessToken() (string, error) {
	switch {
	case r.Key != "":
		return r.Key, nil
	case r.Token != "":
		return r.Token, nil
	default:
		return "", ErrNoToken
	}
}

// DecodeLoginResponse decodes a login reply and extracts the access token.
func DecodeLoginResponse(b []byte) (string, error) {
	var r LoginResponse
	if err := json.Unmarshal(b, &r); err != nil {
		return "", err
	}
	return r.AccessToken()
}
