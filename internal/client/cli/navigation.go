package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/finmate/internal/client/router"
)

// Go navigates to path and shows the view found there.
func (a *App) Go(ctx context.Context, path string) error {
	d, err := a.router.Navigate(ctx, path)
	if errors.Is(err, router.ErrNoRoute) {
		a.printf("Unknown route: %s\n", path)
		return err
	}
	if err != nil {
		return err
	}
	return a.show(ctx, d.Route)
}

// Back returns to the previous view; the guard runs again on the way.
func (a *App) Back(ctx context.Context) error {
	d, ok := a.router.Back(ctx)
	if !ok {
		a.printf("No previous view\n")
		return nil
	}
	return a.show(ctx, d.Route)
}

// show prints the view of a route the router has already resolved.
func (a *App) show(ctx context.Context, rt router.Route) error {
	a.printf("== %s (%s)\n", rt.Title, rt.Path)
	switch rt.Name {
	case router.Products:
		a.catalog.FetchDeposits(ctx)
		a.catalog.FetchSavings(ctx)
		a.catalog.FetchLoans(ctx)
		a.printProducts("Deposits", a.catalog.Deposits())
		a.printProducts("Savings", a.catalog.Savings())
		a.printProducts("Rent loans", a.catalog.Loans())
	case router.Community:
		a.articles.Fetch(ctx)
		a.printArticles()
	case router.Profile:
		a.session.FetchProfile(ctx)
		a.printProfile()
	case router.Recommend:
		a.printRecommendation()
	case router.Login:
		a.printf("Type 'login' to sign in or 'signup' to create an account.\n")
	case router.Signup:
		a.printf("Type 'signup' to create an account.\n")
	default:
		a.printf("Type 'help' for commands.\n")
	}
	return nil
}
