package cli

import (
	"context"
	"errors"
	"strconv"

	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/format"

	"github.com/spf13/cobra"
)

func newPostsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}
	cmd.AddCommand(newPostsListCmd(app))
	cmd.AddCommand(newPostsMineCmd(app))
	cmd.AddCommand(newPostsShowCmd(app))
	cmd.AddCommand(newPostsAddCmd(app))
	cmd.AddCommand(newPostsEditCmd(app))
	cmd.AddCommand(newPostsDeleteCmd(app))
	return cmd
}

// listEnvelope is the CLI projection of one rendered page.
type listEnvelope struct {
	Posts       []api.Post `json:"posts"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalPosts  int        `json:"totalPosts"`
}

func listFlags(cmd *cobra.Command, page *int, search *string) {
	cmd.Flags().IntVar(page, "page", 1, "Page number (clamped to the last page when out of range)")
	cmd.Flags().StringVar(search, "search", "", "Search filter (omitted when empty)")
}

func newPostsListCmd(app *App) *cobra.Command {
	var page int
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published posts (public)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := browse.FetchPage(ctx, d.client.ListPosts,
				api.ListQuery{Page: page, PerPage: browse.DefaultPerPage, Search: search})
			if err != nil {
				return err
			}
			return writeList(cmd, app, res)
		},
	}
	listFlags(cmd, &page, &search)
	return cmd
}

func newPostsMineCmd(app *App) *cobra.Command {
	var page int
	var search string

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own posts (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.requireToken(ctx)
			if err != nil {
				return err
			}
			fetch := func(ctx context.Context, q api.ListQuery) (api.ListResult, error) {
				return d.client.ListMyPosts(ctx, token, q)
			}
			res, err := browse.FetchPage(ctx, fetch,
				api.ListQuery{Page: page, PerPage: browse.DefaultPerPage, Search: search})
			if err != nil {
				return d.privateErr(ctx, err)
			}
			return writeList(cmd, app, res)
		},
	}
	listFlags(cmd, &page, &search)
	return cmd
}

func writeList(cmd *cobra.Command, app *App, res api.ListResult) error {
	return format.WriteJSON(cmd.OutOrStdout(), listEnvelope{
		Posts:       res.Posts,
		CurrentPage: res.CurrentPage,
		TotalPages:  res.TotalPages,
		TotalPosts:  res.TotalPosts,
	}, app.PrettyJSON)
}

func newPostsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one published post by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			post, err := d.client.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), post, app.PrettyJSON)
		},
	}
}

func newPostsAddCmd(app *App) *cobra.Command {
	var title, content, image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a post (requires login)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.requireToken(ctx)
			if err != nil {
				return err
			}
			draft := api.PostDraft{Title: title, Content: content, ImagePath: image}
			if err := d.client.CreatePost(ctx, token, draft); err != nil {
				return d.privateErr(ctx, err)
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"created": true}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post content (markdown)")
	cmd.Flags().StringVar(&image, "image", "", "Path to the post image")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newPostsEditCmd(app *App) *cobra.Command {
	var title, content, image string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a post (requires login)",
		Long:  "Update a post. Omit --image to keep the existing image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.requireToken(ctx)
			if err != nil {
				return err
			}

			// Pre-fill unset fields from the server copy so a partial edit
			// does not blank the others.
			current, err := d.client.PostForEdit(ctx, token, id)
			if err != nil {
				return d.privateErr(ctx, err)
			}
			if title == "" {
				title = current.Title
			}
			if content == "" {
				content = current.Content
			}

			draft := api.PostDraft{Title: title, Content: content, ImagePath: image}
			msg, err := d.client.UpdatePost(ctx, token, id, draft)
			if err != nil {
				return d.privateErr(ctx, err)
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"message": msg}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title (default: unchanged)")
	cmd.Flags().StringVar(&content, "content", "", "New content (default: unchanged)")
	cmd.Flags().StringVar(&image, "image", "", "Path to a replacement image (default: keep existing)")
	return cmd
}

func newPostsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post (requires login)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.requireToken(ctx)
			if err != nil {
				return err
			}
			if err := d.client.DeletePost(ctx, token, id); err != nil {
				return d.privateErr(ctx, err)
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"deleted": true}, app.PrettyJSON)
		},
	}
}

func parsePostID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, errors.New("post id must be a positive integer")
	}
	return id, nil
}
