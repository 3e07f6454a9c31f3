package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/finmate/internal/client/catalog"
	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/dmitrijs2005/finmate/internal/client/render"
)

// Deposits lists the deposit products.
func (a *App) Deposits(ctx context.Context) error {
	return a.listProducts(ctx, "Deposits", a.catalog.FetchDeposits, a.catalog.Deposits)
}

// Savings lists the installment savings products.
func (a *App) Savings(ctx context.Context) error {
	return a.listProducts(ctx, "Savings", a.catalog.FetchSavings, a.catalog.Savings)
}

// Loans lists the rent loan products.
func (a *App) Loans(ctx context.Context) error {
	return a.listProducts(ctx, "Rent loans", a.catalog.FetchLoans, a.catalog.Loans)
}

func (a *App) listProducts(ctx context.Context, title string, fetch func(context.Context), list func() []models.Product) error {
	if err := a.navigate(ctx, "/products"); err != nil {
		return err
	}
	fetch(ctx)
	a.printProducts(title, list())
	return nil
}

func (a *App) printProducts(title string, ps []models.Product) {
	a.printf("%s (%d)\n", title, len(ps))
	if len(ps) == 0 {
		return
	}

	u, hasUser := a.session.User()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  CODE\tCOMPANY\tNAME\tBEST RATE\t")
	for _, p := range ps {
		rate := "-"
		if r, ok := p.BestRate(); ok {
			rate = render.Percent(r)
		}
		mark := ""
		if hasUser && u.HasJoined(p.Code) {
			mark = "joined"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", p.Code, p.CompanyName, p.Name, rate, mark)
	}
	_ = tw.Flush()
}

// Join enrolls the user in the product with the given code.
func (a *App) Join(ctx context.Context, code string) error {
	return a.session.JoinProduct(ctx, code)
}

// Recommend asks for the saving purpose, requests a recommendation and
// renders it as markdown.
func (a *App) Recommend(ctx context.Context) error {
	if err := a.navigate(ctx, "/recommend"); err != nil {
		return err
	}

	purpose, err := getSimpleText(a.reader, "What are you saving for?", a.out)
	if err != nil {
		return err
	}
	if !a.catalog.RecommendProducts(ctx, purpose, catalog.StandardDefaults) {
		return nil
	}
	a.printRecommendation()
	return nil
}

func (a *App) printRecommendation() {
	rec, ok := a.catalog.Recommendation()
	if !ok || !a.catalog.ResultReady() {
		a.printf("No recommendation yet. Type 'recommend' to ask for one.\n")
		return
	}

	if applied := a.catalog.AppliedDefaults(); len(applied) > 0 {
		a.printf("Defaults used for missing profile fields: %s\n", strings.Join(applied, ", "))
	}

	text := rec.Text()
	if text == "" {
		a.printf("%s\n", rec.Raw)
		return
	}
	out, err := render.Terminal(text, a.style, a.width)
	if err != nil {
		a.log.Warn(context.Background(), "render recommendation", "err", err)
		out = text + "\n"
	}
	a.printf("%s", out)
}
