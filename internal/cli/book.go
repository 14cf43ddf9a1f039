package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/domain"
)

const fetchTimeout = 30 * time.Second

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}

// userError turns upstream failures into the message shown in the UI.
func userError(err error) error {
	var (
		ve *domain.ValidationError
		fe *domain.FetchError
	)
	if errors.As(err, &ve) || errors.As(err, &fe) {
		return errors.New(domain.ErrorMessage(err))
	}
	return err
}

func newBookCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "book <work id>",
		Short: "Show a book with its author and encyclopedia summaries",
		Example: `  bookctl book OL45883W
  bookctl book /works/OL45883W -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details := service.NewDetailsService(rt.env.Catalog, rt.env.Encyclopedia, rt.logger("details"))

			ctx, cancel := contextWithTimeout(cmd, fetchTimeout)
			defer cancel()

			book, err := details.Book(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			return Write(cmd.OutOrStdout(), rt.format, book, func(w io.Writer) error {
				return writeBookText(w, book)
			})
		},
	}
}

func newAuthorCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "author <author id>",
		Short: "Show an author record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details := service.NewDetailsService(rt.env.Catalog, rt.env.Encyclopedia, rt.logger("details"))

			ctx, cancel := contextWithTimeout(cmd, fetchTimeout)
			defer cancel()

			author, err := details.Author(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			return Write(cmd.OutOrStdout(), rt.format, author, func(w io.Writer) error {
				return writeAuthorText(w, author)
			})
		},
	}
}

func newRecentCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent catalog changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			activity := service.NewActivityService(rt.env.Catalog, rt.searchConfig().RecentChangesLimit, rt.logger("activity"))

			ctx, cancel := contextWithTimeout(cmd, fetchTimeout)
			defer cancel()

			entries, err := activity.Recent(ctx, limit)
			if err != nil {
				return userError(err)
			}

			return Write(cmd.OutOrStdout(), rt.format, entries, func(w io.Writer) error {
				return writeChangesText(w, entries)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of changes, 1 to 50 (default from config)")

	return cmd
}
