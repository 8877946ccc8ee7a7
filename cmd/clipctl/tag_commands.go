package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"referencer/internal/application/tagcache"
	clipdomain "referencer/internal/domain/clip"
)

const tagFetchTimeout = 15 * time.Second

func newTagCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTagListCommand(ctx))
	cmd.AddCommand(newTagAddCommand(ctx))
	cmd.AddCommand(newTagRenameCommand(ctx))
	cmd.AddCommand(newTagRemoveCommand(ctx))

	return cmd
}

// tagCache builds the shared tag cache over the API client.
func tagCache(ctx *commandContext) (*tagcache.Cache, error) {
	client, err := ctx.ensureClient()
	if err != nil {
		return nil, err
	}
	return tagcache.New(client), nil
}

// loadTags subscribes to the cache and blocks until the initial fetch
// settles one way or the other.
func loadTags(ctx context.Context, cache *tagcache.Cache) ([]clipdomain.Tag, error) {
	settled := make(chan struct{}, 1)
	unsubscribe := cache.Subscribe(func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	waitCtx, cancel := context.WithTimeout(ctx, tagFetchTimeout)
	defer cancel()

	select {
	case <-settled:
	case <-waitCtx.Done():
		return nil, fmt.Errorf("fetch tags: %w", waitCtx.Err())
	}
	if !cache.Initialized() {
		return nil, errors.New(cache.Err())
	}
	return cache.Tags(), nil
}

func newTagListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := tagCache(ctx)
			if err != nil {
				return err
			}
			tags, err := loadTags(cmd.Context(), cache)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags yet")
				return nil
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				rows = append(rows, []string{t.ID, t.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newTagAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := tagCache(ctx)
			if err != nil {
				return err
			}
			t, ok := cache.CreateTag(cmd.Context(), args[0])
			if !ok {
				return errors.New(cache.Err())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", t.Name, t.ID)
			return nil
		},
	}
}

func newTagRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tag-id> <new-name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := tagCache(ctx)
			if err != nil {
				return err
			}
			if !cache.UpdateTag(cmd.Context(), args[0], args[1]) {
				return errors.New(cache.Err())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", args[1])
			return nil
		},
	}
}

func newTagRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tag-id>",
		Short: "Delete a tag and its clip associations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := tagCache(ctx)
			if err != nil {
				return err
			}
			if !cache.DeleteTag(cmd.Context(), args[0]) {
				return errors.New(cache.Err())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

// clipTagCache builds the per-clip association cache over the API client.
func clipTagCache(ctx *commandContext) (*tagcache.ClipTagCache, error) {
	client, err := ctx.ensureClient()
	if err != nil {
		return nil, err
	}
	return tagcache.NewClipTagCache(client), nil
}

func newClipTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <clip-id>",
		Short: "List a clip's tags with ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := clipTagCache(ctx)
			if err != nil {
				return err
			}
			tags, err := cache.Get(cmd.Context(), args[0])
			if err != nil {
				return clipError(err, args[0])
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags on this clip")
				return nil
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				rows = append(rows, []string{t.ID, t.Name, fmt.Sprintf("%d", t.Rating)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Rating"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newClipTagCommand(ctx *commandContext) *cobra.Command {
	var rating int

	cmd := &cobra.Command{
		Use:   "tag <clip-id> <tag-id>",
		Short: "Apply a tag to a clip with a relevance rating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := clipTagCache(ctx)
			if err != nil {
				return err
			}
			if err := cache.TagClip(cmd.Context(), args[0], args[1], rating); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged with rating %d\n", rating)
			return nil
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 3, "Relevance rating, 1 to 5")
	return cmd
}

func newClipUntagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <clip-id> <tag-id>",
		Short: "Remove a tag from a clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := clipTagCache(ctx)
			if err != nil {
				return err
			}
			if err := cache.UntagClip(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Untagged")
			return nil
		},
	}
}
