package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/render"
	"github.com/shopspring/decimal"
)

// Profile shows the signed-in profile. With a jsonpath expression it prints
// that part of the server document instead, e.g. "$.joined_products[0].fin_prdt_nm".
func (a *App) Profile(ctx context.Context, path string) error {
	if err := a.navigate(ctx, "/profile"); err != nil {
		return err
	}
	a.session.FetchProfile(ctx)

	if path == "" {
		a.printProfile()
		return nil
	}

	u, ok := a.session.User()
	if !ok {
		a.printf("Profile not loaded\n")
		return nil
	}
	v, err := models.Query(u.Raw, path)
	if err != nil {
		a.printf("%v\n", err)
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", b)
	return nil
}

func (a *App) printProfile() {
	u, ok := a.session.User()
	if !ok {
		a.printf("Profile not loaded\n")
		return
	}

	a.printf("%s <%s>\n", u.Username, u.Email)
	a.printf("  age: %s  salary: %s  assets: %s\n", optionalInt(u.Age), render.OptionalKRW(u.Salary), render.OptionalKRW(u.Assets))
	if len(u.JoinedProducts) == 0 {
		a.printf("No joined products\n")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tPRODUCT\tRATE\tTERM\tAMOUNT\tAT MATURITY\t")
	for _, jp := range u.JoinedProducts {
		fmt.Fprintf(tw, "  %s\t%s (%s)\t%s\t%dm\t%s\t%s\t\n",
			jp.ID, jp.ProductName, jp.ProductCode, render.Percent(jp.InterestRate), jp.Term,
			render.Won(jp.Amount), render.OptionalWon(jp.MaturityAmount))
	}
	_ = tw.Flush()
}

// SetProfile edits age, salary and assets. Empty answers keep the current value.
func (a *App) SetProfile(ctx context.Context) error {
	var upd models.ProfileUpdate
	var err error

	if upd.Age, err = GetOptionalInt(a.reader, "Age", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}
	if upd.Salary, err = GetOptionalInt(a.reader, "Annual salary (KRW)", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}
	if upd.Assets, err = GetOptionalInt(a.reader, "Assets (KRW)", a.out); err != nil {
		a.printf("%v\n", err)
		return err
	}
	if upd.Empty() {
		a.printf("Nothing to update\n")
		return nil
	}

	if a.session.UpdateProfile(ctx, upd) {
		a.printf("Profile updated\n")
	}
	return nil
}

// UpdateJoined changes the term or amount of a joined product, by relation id.
func (a *App) UpdateJoined(ctx context.Context, id string) error {
	var upd models.JoinedProductUpdate

	term, err := getSimpleText(a.reader, "New term in months (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if term = strings.TrimSpace(term); term != "" {
		n, err := strconv.Atoi(term)
		if err != nil {
			a.printf("not a number: %q\n", term)
			return err
		}
		upd.Term = &n
	}

	amount, err := getSimpleText(a.reader, "New amount in KRW (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if amount = strings.ReplaceAll(strings.TrimSpace(amount), ",", ""); amount != "" {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			a.printf("not a number: %q\n", amount)
			return err
		}
		upd.Amount = &d
	}

	return a.session.UpdateJoinedProduct(ctx, models.ID(id), upd)
}

// Terminate cancels a joined product, by relation id.
func (a *App) Terminate(ctx context.Context, id string) error {
	return a.session.TerminateProduct(ctx, models.ID(id))
}
