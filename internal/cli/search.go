package cli

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"book-discovery-service/internal/app/service"
	"book-discovery-service/internal/config"
	"book-discovery-service/internal/domain"
)

const suggestTimeout = 5 * time.Second

func (rt *runtime) logger(name string) *zap.Logger {
	if rt.env.Logger == nil {
		return zap.NewNop()
	}
	return rt.env.Logger.Named(name).Logger
}

func (rt *runtime) searchConfig() config.SearchConfig {
	if rt.env.Config == nil {
		return config.SearchConfig{}
	}
	return rt.env.Config.Search
}

func (rt *runtime) suggesterConfig() service.SuggesterConfig {
	cfg := rt.searchConfig()
	return service.SuggesterConfig{
		Delay:     cfg.SuggestionDelay,
		Limit:     cfg.SuggestionLimit,
		FetchSize: cfg.SuggestionFetchSize,
	}
}

func newSearchCmd(rt *runtime) *cobra.Command {
	var (
		page     int
		pageSize int
		filters  domain.SearchFilters
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search books by free text, or by field with the filter flags",
		Example: `  bookctl search lord of the rings
  bookctl search --author tolkien --language eng
  bookctl search hobbit --page 2 -o json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			var f *domain.SearchFilters
			if !filters.IsEmpty() {
				f = &filters
			}

			if pageSize == 0 {
				pageSize = rt.searchConfig().PageSize
			}

			session := service.NewSearchSession(rt.env.Catalog, pageSize, rt.logger("search"))
			defer session.Close()

			view := session.Search(cmd.Context(), query, page, f)

			if view.Status == service.StatusError {
				if rt.format != FormatText {
					if err := Write(cmd.OutOrStdout(), rt.format, view, nil); err != nil {
						return err
					}
				}
				return errors.New(view.Error)
			}

			return Write(cmd.OutOrStdout(), rt.format, view, func(w io.Writer) error {
				return writeSearchText(w, view)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&page, "page", "p", 1, "result page, starting at 1")
	flags.IntVar(&pageSize, "page-size", 0, "results per page (default from config)")
	flags.StringVar(&filters.Title, "title", "", "title contains")
	flags.StringVar(&filters.Author, "author", "", "author name")
	flags.StringVar(&filters.Subject, "subject", "", "subject")
	flags.IntVar(&filters.FirstPublishYear, "year", 0, "first publication year")
	flags.StringVar(&filters.Language, "language", "", "language code, e.g. eng")

	return cmd
}

func newSuggestCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <partial title>",
		Short: "Show title suggestions for a partial query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggester := service.NewSuggester(rt.env.Catalog, rt.suggesterConfig(), rt.logger("suggest"))
			defer suggester.Close()

			ctx, cancel := contextWithTimeout(cmd, suggestTimeout)
			defer cancel()

			titles, err := suggester.Await(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if titles == nil {
				titles = []string{}
			}

			return Write(cmd.OutOrStdout(), rt.format, titles, func(w io.Writer) error {
				return writeSuggestionsText(w, titles)
			})
		},
	}
}
