package service

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"filmbot/internal/catalog"
	"filmbot/internal/config"
	"filmbot/internal/critic"
	"filmbot/internal/history"
	"filmbot/internal/llm"
	"filmbot/internal/message"
	"filmbot/internal/sentstore"
	"filmbot/internal/telegram"
	"filmbot/pkg/icron"
	"filmbot/pkg/log"
)

// The component surfaces the runner drives. Production wiring uses the
// concrete clients; tests substitute fakes.
type (
	CatalogFetcher interface {
		FetchTopRated(ctx context.Context) ([]catalog.Movie, error)
	}
	Selector interface {
		SelectApproved(ctx context.Context, candidates []catalog.Movie) ([]catalog.Movie, error)
	}
	Describer interface {
		Generate(ctx context.Context, movie catalog.Movie) (string, error)
	}
	Sender interface {
		SendPhoto(ctx context.Context, photoURL, caption string) error
		SendMessage(ctx context.Context, text string) error
	}
	SentStore interface {
		Load() ([]int, error)
		Save(ids []int) error
	}
	Recorder interface {
		Record(ctx context.Context, d Delivery) error
	}
)

// Delivery aliases the history record type so fakes do not need the
// history package.
type Delivery = history.Delivery

type promoService struct {
	cfg      config.Config
	cron     *cron.Cron
	cronExpr string

	catalog   CatalogFetcher
	judge     Selector
	generator Describer
	sender    Sender
	sent      SentStore
	hist      Recorder

	handler ErrorHandler
	lock    *flock.Flock
	now     func() time.Time

	histStore *history.SQLiteStore
}

// NewRunnablePromoService wires the full pipeline from configuration.
func NewRunnablePromoService(cfg config.Config, c *cron.Cron) (*promoService, error) {
	llmClient, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.Critic.PromoMaxTokens,
		Temperature: cfg.Critic.JudgeTemperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create LLM client")
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.APIURL, cfg.Catalog.Language, cfg.Catalog.Timeout)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create catalog client")
	}

	judge, err := critic.NewJudge(cfg.Critic, llmClient)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create judge")
	}

	generator, err := critic.NewGenerator(cfg.Critic, cfg.Catalog.Language, llmClient)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create generator")
	}

	sender, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.APIURL, cfg.Telegram.Timeout)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to create telegram client")
	}

	histStore, err := history.NewSQLiteStore(cfg.Storage.HistoryDBPath())
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to open history store")
	}

	return &promoService{
		cfg:       cfg,
		cron:      c,
		cronExpr:  cfg.CronExpr,
		catalog:   catalogClient,
		judge:     judge,
		generator: generator,
		sender:    sender,
		sent:      sentstore.New(cfg.Storage.SentFilePath()),
		hist:      histStore,
		handler:   NewDefaultErrorHandler(),
		lock:      flock.New(cfg.Storage.LockFilePath()),
		now:       time.Now,
		histStore: histStore,
	}, nil
}

func (s *promoService) Close() error {
	return s.histStore.Close()
}

var singleflightGroup singleflight.Group

// Schedule registers the periodic trigger. An empty configured
// expression picks a random weekly slot, fixed for the lifetime of the
// process. The chosen expression is always logged together with its
// next firing time.
func (s *promoService) Schedule(ctx context.Context) error {
	expr := s.cronExpr
	if expr == "" {
		expr = icron.RandomWeekly()
		log.Info("No CRON_EXPR configured, picked random weekly schedule %q", expr)
	}
	s.cronExpr = expr

	info, err := icron.GetTriggerInfo(expr, s.now())
	if err != nil {
		return WrapError(err, ErrConfig, "invalid schedule expression")
	}
	log.Info("Scheduled runs with %q, next fire at %s (in %s)",
		expr, info.Next.Format(time.RFC3339), info.TimeUntilNext.Round(time.Second))

	_, err = s.cron.AddFunc(expr, func() { s.Run(ctx) })
	return err
}

// Run executes one end-to-end pass. Every error raised during the pass
// is handled exactly here: logged with advice and swallowed, so the
// process stays alive for the next trigger. Overlapping invocations
// are collapsed in-process by singleflight and across processes by the
// lock file.
func (s *promoService) Run(ctx context.Context) {
	_, _, _ = singleflightGroup.Do("run", func() (any, error) {
		locked, err := s.lock.TryLock()
		if err != nil {
			log.Warn("Failed to acquire run lock: %v", err)
			return nil, nil
		}
		if !locked {
			log.Warn("Previous run still in flight, skipping this trigger")
			return nil, nil
		}
		defer func() { _ = s.lock.Unlock() }()

		log.Info("Run started")
		if err := SafeExecute(func() error { return s.run(ctx) }); err != nil {
			s.handler.Handle(err)
			return nil, nil
		}
		log.Info("Run finished")
		return nil, nil
	})
}

func (s *promoService) run(ctx context.Context) error {
	sentIDs, err := s.sent.Load()
	if err != nil {
		return WrapError(err, ErrCorruptState, "failed to load sent ids")
	}

	movies, err := s.catalog.FetchTopRated(ctx)
	if err != nil {
		return WrapError(err, ErrCatalogFetch, "failed to fetch top rated movies")
	}

	candidates := filterCandidates(movies, sentIDs, s.cfg.Catalog.MinRating)
	log.Info("Fetched %d movies, %d candidates after rating and dedup filter", len(movies), len(candidates))

	approved, err := s.judge.SelectApproved(ctx, candidates)
	if err != nil {
		return WrapError(err, ErrJudgment, "judgment failed")
	}
	if len(approved) == 0 {
		log.Info("No suitable movies found")
		return nil
	}

	for i, movie := range approved {
		description, err := s.generator.Generate(ctx, movie)
		if err != nil {
			return WrapError(err, ErrGeneration, "description generation failed").
				WithContext("movie_id", movie.ID)
		}

		caption := message.Format(movie, description, i+1, s.now())

		if posterURL := message.PosterURL(s.cfg.Catalog.ImageBaseURL, movie); posterURL != "" {
			err = s.sender.SendPhoto(ctx, posterURL, caption)
		} else {
			err = s.sender.SendMessage(ctx, caption)
		}
		if err != nil {
			return WrapError(err, ErrDelivery, "delivery failed").
				WithContext("movie_id", movie.ID)
		}

		// Persist immediately so a later failure in this run cannot
		// cause this movie to be re-sent next time.
		sentIDs = append(sentIDs, movie.ID)
		if err := s.sent.Save(sentIDs); err != nil {
			return WrapError(err, ErrCorruptState, "failed to persist sent ids").
				WithContext("movie_id", movie.ID)
		}

		log.Info("Delivered %q (id %d)", movie.Title, movie.ID)

		if s.hist != nil {
			if err := s.hist.Record(ctx, Delivery{
				MovieID: movie.ID,
				Title:   movie.Title,
				Rating:  movie.VoteAverage,
				Caption: caption,
				SentAt:  s.now(),
			}); err != nil {
				log.Warn("Failed to record delivery history for id %d: %v", movie.ID, err)
			}
		}
	}

	return nil
}

// filterCandidates keeps movies at or above the rating threshold whose
// id has not been delivered before, preserving catalog order.
func filterCandidates(movies []catalog.Movie, sentIDs []int, minRating float64) []catalog.Movie {
	seen := make(map[int]struct{}, len(sentIDs))
	for _, id := range sentIDs {
		seen[id] = struct{}{}
	}

	candidates := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if m.VoteAverage < minRating {
			continue
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		candidates = append(candidates, m)
	}
	return candidates
}
