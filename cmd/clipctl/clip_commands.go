package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"referencer/internal/adapters/apiclient"
	"referencer/internal/application/projections"
	clipdomain "referencer/internal/domain/clip"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Manage saved clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newClipListCommand(ctx))
	cmd.AddCommand(newClipShowCommand(ctx))
	cmd.AddCommand(newClipAddCommand(ctx))
	cmd.AddCommand(newClipAdjustCommand(ctx))
	cmd.AddCommand(newClipShareCommand(ctx))
	cmd.AddCommand(newClipRemoveCommand(ctx))
	cmd.AddCommand(newClipTagCommand(ctx))
	cmd.AddCommand(newClipUntagCommand(ctx))
	cmd.AddCommand(newClipTagsCommand(ctx))

	return cmd
}

func newClipListCommand(ctx *commandContext) *cobra.Command {
	var search string
	var tagIDs []string
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clips, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			result, err := client.ListClips(cmd.Context(), apiclient.ListClipsParams{
				Search:  search,
				TagIDs:  tagIDs,
				Page:    page,
				PerPage: perPage,
			})
			if err != nil {
				return err
			}
			if result.PageInfo.Total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clips found")
				return nil
			}

			rows := make([][]string, 0, len(result.Clips))
			for _, c := range result.Clips {
				rows = append(rows, []string{
					c.ID,
					c.Title,
					fmt.Sprintf("%s-%s", clipdomain.FormatTime(c.StartTime), clipdomain.FormatTime(c.EndTime)),
					clipdomain.FormatTime(c.Duration()),
					formatTagList(c.Tags),
					formatPublic(c.IsPublic),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Range", "Length", "Tags", "Public"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Showing %d-%d of %d\n",
				result.PageInfo.StartRow(), result.PageInfo.EndRow(), result.PageInfo.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Filter by title substring")
	cmd.Flags().StringSliceVar(&tagIDs, "tags", nil, "Only clips carrying all of these tag IDs")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Rows per page")
	return cmd
}

func newClipShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <clip-id>",
		Short: "Show one clip with its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			detail, err := client.GetClip(cmd.Context(), args[0])
			if err != nil {
				return clipError(err, args[0])
			}
			printClipDetail(cmd, ctx, detail)
			return nil
		},
	}
}

func newClipAddCommand(ctx *commandContext) *cobra.Command {
	var videoID, title, start, end, duration, notes, thumbnail string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Capture a new clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			startSec, err := parseTimestamp(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endSec, err := parseTimestamp(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			var durationSec int
			if duration != "" {
				if durationSec, err = parseTimestamp(duration); err != nil {
					return fmt.Errorf("--duration: %w", err)
				}
			}
			clip, err := client.CreateClip(cmd.Context(), apiclient.CreateClipParams{
				VideoID:       videoID,
				Title:         title,
				Thumbnail:     thumbnail,
				StartTime:     startSec,
				EndTime:       endSec,
				VideoDuration: durationSec,
				Notes:         notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved clip %s (%s-%s of %s)\n",
				clip.ID, clipdomain.FormatTime(clip.StartTime), clipdomain.FormatTime(clip.EndTime), clip.VideoID)
			return nil
		},
	}

	cmd.Flags().StringVar(&videoID, "video", "", "YouTube video ID (11 characters)")
	cmd.Flags().StringVar(&title, "title", "", "Clip title")
	cmd.Flags().StringVar(&start, "start", "", "Start position, m:ss or seconds")
	cmd.Flags().StringVar(&end, "end", "", "End position, m:ss or seconds")
	cmd.Flags().StringVar(&duration, "duration", "", "Source video length, m:ss or seconds")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Thumbnail URL (defaults to the YouTube one)")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// newClipAdjustCommand edits one time field at a time the way the dashboard
// editor does: the untouched unit of each bound is preserved and the result
// is clamped so the range stays valid rather than rejected.
func newClipAdjustCommand(ctx *commandContext) *cobra.Command {
	var startMin, startSec, endMin, endSec string

	cmd := &cobra.Command{
		Use:   "adjust <clip-id>",
		Short: "Nudge a clip's time range field by field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			detail, err := client.GetClip(cmd.Context(), args[0])
			if err != nil {
				return clipError(err, args[0])
			}
			clip := detail.Clip

			iv := clipdomain.Interval{StartTime: clip.StartTime, EndTime: clip.EndTime}
			if cmd.Flags().Changed("start-min") {
				iv = clipdomain.SetMinutes(clipdomain.FieldStart, startMin, iv, clip.VideoDuration)
			}
			if cmd.Flags().Changed("start-sec") {
				iv = clipdomain.SetSeconds(clipdomain.FieldStart, startSec, iv, clip.VideoDuration)
			}
			if cmd.Flags().Changed("end-min") {
				iv = clipdomain.SetMinutes(clipdomain.FieldEnd, endMin, iv, clip.VideoDuration)
			}
			if cmd.Flags().Changed("end-sec") {
				iv = clipdomain.SetSeconds(clipdomain.FieldEnd, endSec, iv, clip.VideoDuration)
			}
			if iv.StartTime == clip.StartTime && iv.EndTime == clip.EndTime {
				fmt.Fprintln(cmd.OutOrStdout(), "No change")
				return nil
			}

			updated, err := client.UpdateClip(cmd.Context(), clip.ID, apiclient.UpdateClipParams{
				StartTime: &iv.StartTime,
				EndTime:   &iv.EndTime,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Adjusted to %s-%s (%s long)\n",
				clipdomain.FormatTime(updated.StartTime), clipdomain.FormatTime(updated.EndTime),
				clipdomain.FormatTime(updated.Duration()))
			return nil
		},
	}

	cmd.Flags().StringVar(&startMin, "start-min", "", "Start minutes field")
	cmd.Flags().StringVar(&startSec, "start-sec", "", "Start seconds field")
	cmd.Flags().StringVar(&endMin, "end-min", "", "End minutes field")
	cmd.Flags().StringVar(&endSec, "end-sec", "", "End seconds field")
	return cmd
}

func newClipShareCommand(ctx *commandContext) *cobra.Command {
	var private bool

	cmd := &cobra.Command{
		Use:   "share <clip-id>",
		Short: "Publish a clip (or make it private again) and print its share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			isPublic := !private
			clip, err := client.UpdateClip(cmd.Context(), args[0], apiclient.UpdateClipParams{
				IsPublic: &isPublic,
			})
			if err != nil {
				return clipError(err, args[0])
			}
			if !clip.IsPublic {
				fmt.Fprintln(cmd.OutOrStdout(), "Clip is now private")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/share/%s\n", ctx.serverURL(), clip.ShareSlug)
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "Make the clip private instead")
	return cmd
}

func newClipRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <clip-id>",
		Short: "Delete a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			if err := client.DeleteClip(cmd.Context(), args[0]); err != nil {
				return clipError(err, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func printClipDetail(cmd *cobra.Command, ctx *commandContext, detail projections.GetClipDetailResult) {
	out := cmd.OutOrStdout()
	clip := detail.Clip
	fmt.Fprintf(out, "%s\n", clip.Title)
	fmt.Fprintf(out, "  ID:     %s\n", clip.ID)
	fmt.Fprintf(out, "  Video:  %s\n", clip.WatchURL())
	fmt.Fprintf(out, "  Range:  %s-%s (%s long)\n",
		clipdomain.FormatTime(clip.StartTime), clipdomain.FormatTime(clip.EndTime),
		clipdomain.FormatTime(clip.Duration()))
	if clip.VideoDuration > 0 {
		fmt.Fprintf(out, "  Source: %s\n", clipdomain.FormatTime(clip.VideoDuration))
	}
	if len(detail.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:   %s\n", formatTagList(detail.Tags))
	}
	if clip.IsPublic {
		fmt.Fprintf(out, "  Share:  %s/share/%s\n", ctx.serverURL(), clip.ShareSlug)
	}
	if clip.Notes != "" {
		fmt.Fprintf(out, "\n%s\n", clip.Notes)
	}
}

// parseTimestamp accepts "h:mm:ss", "m:ss", or plain seconds.
func parseTimestamp(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.New("empty timestamp")
	}
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("malformed timestamp %q", text)
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed timestamp %q", text)
		}
		total = total*60 + n
	}
	return total, nil
}

func formatTagList(tags []clipdomain.RatedTag) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, fmt.Sprintf("%s(%d)", t.Name, t.Rating))
	}
	return strings.Join(parts, ", ")
}

func formatPublic(isPublic bool) string {
	if isPublic {
		return "yes"
	}
	return ""
}

// clipError rewrites the API's deliberately vague 404 into a message that
// names the ID the user typed.
func clipError(err error, id string) error {
	if errors.Is(err, apiclient.ErrNotFound) {
		return fmt.Errorf("no clip %s", id)
	}
	return err
}
