package mcq

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/pkg/oops"
)

// Service runs the three read operations: schedule, question and list.
type Service struct {
	gateway  QueryGateway
	cache    QuestionCache
	resolver *ScheduleResolver
	access   AccessFilter
	pager    *ListPager
	now      func() time.Time
	logger   zerolog.Logger
}

// ServiceOptions configures optional collaborators.
type ServiceOptions struct {
	Cache QuestionCache // nil disables caching
	Now   func() time.Time
}

func NewService(gateway QueryGateway, resolver *ScheduleResolver, pager *ListPager, opts ServiceOptions, logger zerolog.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if pager == nil {
		pager = NewListPager(DefaultPageSize)
	}
	return &Service{
		gateway:  gateway,
		cache:    opts.Cache,
		resolver: resolver,
		pager:    pager,
		now:      now,
		logger:   logger.With().Str("component", "mcq_service").Logger(),
	}
}

// Schedule resolves the caller's next publishing slot for topic.
func (s *Service) Schedule(ctx context.Context, topic string, ac auth.Context) (ScheduleResult, error) {
	if !ac.Elevated {
		return ScheduleResult{}, ErrUnauthorized
	}

	now := s.now()
	submissions, err := s.gateway.ListQuestions(ctx, s.resolver.SubmissionQuery(topic, ac, now))
	if err != nil {
		return ScheduleResult{}, Internal(oops.New(err, "list weekly submissions"))
	}

	ts, err := s.resolver.Resolve(topic, ac, submissions, now)
	if err != nil {
		return ScheduleResult{}, err
	}
	return ScheduleResult{Schedule: ts}, nil
}

// Question returns a single question as the caller may see it.
func (s *Service) Question(ctx context.Context, docID string, ac auth.Context) (QuestionView, error) {
	q, err := s.lookup(ctx, docID)
	if err != nil {
		return QuestionView{}, err
	}
	return s.access.Project(q, ac)
}

// List returns one page of questions, newest first.
func (s *Service) List(ctx context.Context, f ListFilters, ac auth.Context) (ListResult, error) {
	batch, err := s.gateway.ListQuestions(ctx, s.pager.Query(f, ac))
	if err != nil {
		return ListResult{}, Internal(oops.New(err, "list questions"))
	}
	return s.pager.Page(batch, f, ac), nil
}

func (s *Service) lookup(ctx context.Context, docID string) (*Question, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, docID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("doc_id", docID).Msg("question cache lookup failed")
		}
	}

	q, err := s.gateway.GetQuestion(ctx, docID)
	if err != nil {
		return nil, Internal(oops.New(err, "get question %s", docID))
	}
	if q == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *q); err != nil {
			s.logger.Warn().Err(err).Str("doc_id", docID).Msg("question cache store failed")
		}
	}
	return q, nil
}
