package cli

import (
	"context"
	"fmt"
	"os"
)

// List prints all posts, newest first.
func (a *App) List(ctx context.Context) error {
	posts, err := a.postService.List(ctx)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		printlnFn("No posts yet")
		return nil
	}
	for _, p := range posts {
		printlnFn(fmt.Sprintf("#%d [%s] %s", p.ID, p.Username, p.Title))
		printlnFn("    " + p.Content)
	}
	return nil
}

// Post prompts for a title and body and publishes a post.
func (a *App) Post(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Enter content", os.Stdout)
	if err != nil {
		return err
	}

	post, err := a.postService.Create(ctx, title, content)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Published #%d %s", post.ID, post.Title))
	return nil
}
