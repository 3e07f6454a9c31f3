package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/render"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. Rejections and transport errors
// have already been notified by the session when they are returned.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.session.Login(ctx, models.Credentials{Username: userName, Password: string(password)}); err != nil {
		a.log.Debug(ctx, "login failed", "err", err)
		return err
	}

	a.printf("Logged in as %s\n", userName)
	return nil
}

// Signup collects the registration form. It does not log in: on success the
// user is asked to log in with the new account.
func (a *App) Signup(ctx context.Context) error {
	var req models.SignupRequest
	var err error

	if req.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email (empty to skip)", a.out); err != nil {
		return err
	}

	pw1, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer clear(pw1)
	pw2, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer clear(pw2)
	req.Password1, req.Password2 = string(pw1), string(pw2)

	if req.Age, err = GetOptionalInt(a.reader, "Age", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}
	if req.Salary, err = GetOptionalInt(a.reader, "Annual salary (KRW)", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}
	if req.Assets, err = GetOptionalInt(a.reader, "Assets (KRW)", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}

	return a.session.Signup(ctx, req)
}

// Logout ends the session. It never fails: the local state is cleared even
// when the backend cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.printf("Logged out\n")
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(_ context.Context) error {
	u, ok := a.session.User()
	switch {
	case !a.session.IsAuthenticated():
		a.printf("Not logged in\n")
		return nil
	case !ok:
		a.printf("Logged in (profile not loaded)\n")
	default:
		a.printf("%s <%s>\n", u.Username, u.Email)
		a.printf("  age: %s  salary: %s  assets: %s\n", optionalInt(u.Age), render.OptionalKRW(u.Salary), render.OptionalKRW(u.Assets))
	}
	if exp, ok := a.session.TokenExpiry(); ok {
		a.printf("  session expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

func optionalInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
