package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/finmate/internal/client/models"
)

// Articles lists the community posts.
func (a *App) Articles(ctx context.Context) error {
	if err := a.navigate(ctx, "/community"); err != nil {
		return err
	}
	a.articles.Fetch(ctx)
	a.printArticles()
	return nil
}

func (a *App) printArticles() {
	list := a.articles.Articles()
	if len(list) == 0 {
		a.printf("No articles\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tAUTHOR\t")
	for _, art := range list {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", art.ID, art.Title, art.Author)
	}
	_ = tw.Flush()
}

// Post writes a new article.
func (a *App) Post(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content (markdown)", a.out)
	if err != nil {
		return err
	}
	// failures are notified by the store
	if err := a.articles.Create(ctx, models.ArticlePayload{Title: title, Content: content}); err != nil {
		a.log.Debug(ctx, "create article", "err", err)
	}
	return nil
}

// Edit rewrites an article. Empty answers keep the current title or content.
func (a *App) Edit(ctx context.Context, id string) error {
	art, ok := a.articles.Get(models.ID(id))
	if !ok {
		a.articles.Fetch(ctx)
		art, ok = a.articles.Get(models.ID(id))
	}
	if !ok {
		a.printf("No article %s\n", id)
		return nil
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", art.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = art.Title
	}
	content, err := GetMultiline(a.reader, "Content (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		content = art.Content
	}

	return a.articles.Update(ctx, art.ID, models.ArticlePayload{Title: title, Content: content})
}

// Remove deletes an article.
func (a *App) Remove(ctx context.Context, id string) error {
	return a.articles.Delete(ctx, models.ID(id))
}
