package services

import (
	"context"
	"time"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/cache"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
)

const faqListKey = "faqs:all"

type FAQInput struct {
	Question string `json:"question" validate:"required,max=1000"`
	Answer   string `json:"answer"   validate:"required,max=5000"`
}

type UpdateFAQInput struct {
	Question *string `json:"question" validate:"omitempty,min=1,max=1000"`
	Answer   *string `json:"answer"   validate:"omitempty,min=1,max=5000"`
}

type FAQService struct {
	faqs *repositories.FAQRepository
	ttl  time.Duration
}

func NewFAQService(faqs *repositories.FAQRepository, ttl time.Duration) *FAQService {
	return &FAQService{faqs: faqs, ttl: ttl}
}

// List returns every FAQ, served from the cache when one is connected.
func (s *FAQService) List(ctx context.Context) ([]model.Record, error) {
	return cache.Remember(ctx, faqListKey, s.ttl, func() ([]model.Record, error) {
		return s.faqs.All(ctx)
	})
}

func (s *FAQService) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.faqs.FindByID(ctx, id)
}

func (s *FAQService) Search(ctx context.Context, term string) ([]model.Record, error) {
	if term == "" {
		return nil, models.Invalid("search term is required")
	}
	return s.faqs.Search(ctx, term)
}

func (s *FAQService) Create(ctx context.Context, in FAQInput) (model.Record, error) {
	id, err := s.faqs.Create(ctx, model.Record{"question": in.Question, "answer": in.Answer})
	if err != nil {
		return nil, err
	}
	s.forget(ctx)
	return s.faqs.FindByID(ctx, id)
}

func (s *FAQService) Update(ctx context.Context, id int64, fields model.Record) (model.Record, error) {
	changes := pick(fields, "question", "answer")
	if len(changes) == 0 {
		return nil, models.Invalid("no updatable fields given")
	}
	n, err := s.faqs.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.ErrFAQNotFound
	}
	s.forget(ctx)
	return s.faqs.FindByID(ctx, id)
}

// Delete removes the FAQ. Deleting a missing FAQ succeeds.
func (s *FAQService) Delete(ctx context.Context, id int64) error {
	if err := s.faqs.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx)
	return nil
}

func (s *FAQService) forget(ctx context.Context) {
	if err := cache.Del(ctx, faqListKey); err != nil {
		logger.WithCtx(ctx).Warn("faq cache not cleared", "error", err)
	}
}
