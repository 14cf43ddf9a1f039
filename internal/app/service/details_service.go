package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
)

// DetailsService assembles book and author detail pages.
type DetailsService struct {
	catalog      domain.Catalog
	encyclopedia domain.Encyclopedia
	logger       *zap.Logger
}

// NewDetailsService creates a new DetailsService. encyclopedia may be nil,
// in which case summaries are omitted.
func NewDetailsService(catalog domain.Catalog, encyclopedia domain.Encyclopedia, logger *zap.Logger) *DetailsService {
	return &DetailsService{
		catalog:      catalog,
		encyclopedia: encyclopedia,
		logger:       logger,
	}
}

// Book loads the work identified by workID together with its first author
// and encyclopedia summaries for the title and author name. Only the work
// itself is required; the other parts are dropped when they fail.
func (s *DetailsService) Book(ctx context.Context, workID string) (*domain.BookDetails, error) {
	key, err := domain.WorkKey(workID)
	if err != nil {
		return nil, err
	}

	work, err := s.catalog.GetWork(ctx, key)
	if err != nil {
		s.logger.Warn("get work failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	details := &domain.BookDetails{
		Work:     work,
		CoverURL: work.CoverURL(domain.CoverSizeLarge),
	}

	if authorKey, ok := work.FirstAuthorKey(); ok {
		author, err := s.catalog.GetAuthor(ctx, authorKey)
		if err != nil {
			s.logger.Warn("get author failed, continuing without author",
				zap.String("work", key),
				zap.String("author", authorKey),
				zap.Error(err),
			)
		} else {
			details.Author = author
		}
	}

	if s.encyclopedia == nil {
		return details, nil
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		details.BookSummary = s.summary(ctx, work.Title)
	}()

	if details.Author != nil && details.Author.Name != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			details.AuthorSummary = s.summary(ctx, details.Author.Name)
		}()
	}

	wg.Wait()

	return details, nil
}

// Work loads a single work.
func (s *DetailsService) Work(ctx context.Context, workID string) (*domain.WorkDetails, error) {
	key, err := domain.WorkKey(workID)
	if err != nil {
		return nil, err
	}

	return s.catalog.GetWork(ctx, key)
}

// Author loads a single author.
func (s *DetailsService) Author(ctx context.Context, authorID string) (*domain.AuthorDetails, error) {
	key, err := domain.AuthorKey(authorID)
	if err != nil {
		return nil, err
	}

	return s.catalog.GetAuthor(ctx, key)
}

func (s *DetailsService) summary(ctx context.Context, query string) *domain.EncyclopediaSummary {
	summary, err := s.encyclopedia.Summary(ctx, query)
	if err != nil {
		s.logger.Warn("encyclopedia lookup failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	return summary
}
