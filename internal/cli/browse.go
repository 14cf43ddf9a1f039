package cli

import (
	"io"

	"github.com/spf13/cobra"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/tui"
)

var runBrowser = tui.Run

func newBrowseCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Search interactively with live title suggestions",
		Long: `Opens a terminal browser. Suggestions appear while typing, Enter searches,
and picking a result prints the book details.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := service.NewSearchSession(rt.env.Catalog, rt.searchConfig().PageSize, rt.logger("search"))
			defer session.Close()

			suggester := service.NewSuggester(rt.env.Catalog, rt.suggesterConfig(), rt.logger("suggest"))
			defer suggester.Close()

			book, err := runBrowser(cmd.Context(), session, suggester)
			if err != nil || book == nil {
				return err
			}

			details := service.NewDetailsService(rt.env.Catalog, rt.env.Encyclopedia, rt.logger("details"))

			ctx, cancel := contextWithTimeout(cmd, fetchTimeout)
			defer cancel()

			full, err := details.Book(ctx, book.ID)
			if err != nil {
				return userError(err)
			}

			return Write(cmd.OutOrStdout(), rt.format, full, func(w io.Writer) error {
				return writeBookText(w, full)
			})
		},
	}
}
