// Command seed wipes the database and fills it with sample theatres,
// movies, users, tickets and reviews.  Rows go through the repositories,
// so every validator and reference check applies.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/database"
	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
)

var (
	theatreNames = []string{
		"Westgate Cinema", "Prestige Cinema", "Mega Cinema", "Planet Media Cinemas", "Century Cinemax",
		"Motion Cinemas", "Nyumba Cinema", "Anga Sky Cinema", "Nairobi Cinema", "Casino Cinema",
	}
	theatreLocations = []string{
		"The Hub Karen", "Westgate mall", "Junction mall", "GardenCity Mall", "PanariSky Centre",
		"Rosslyn Riviera Mall", "Sarit Centre", "Greenspan mall", "K.U", "Kisumu Mega Plaza",
	}
	genres = []string{
		"Action", "Comedy", "Drama", "Thriller", "Horror", "Romance", "Sci-Fi", "Crime", "Adventure", "Narrative",
		"Fantasy", "Documentary", "Musical", "Anime", "Mystery", "Slapstick", "Art", "Hindi", "Korean", "History",
	}
)

const (
	numMovies   = 20
	numTheatres = 10
	numUsers    = 50
	numTickets  = 50
	numReviews  = 30
)

type seeder struct {
	fake     *gofakeit.Faker
	cfg      config.Config
	log      hclog.Logger
	movies   *repository.MovieRepo
	theatres *repository.TheatreRepo
	users    *repository.UserRepo
	tickets  *repository.TicketRepo
	reviews  *repository.ReviewRepo
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := hclog.New(&hclog.LoggerOptions{Name: "seed", Level: hclog.LevelFromString(cfg.LogLevel)})

	db, err := database.Open(cfg, log.Named("db"))
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	s := &seeder{
		fake:     gofakeit.New(0),
		cfg:      cfg,
		log:      log,
		movies:   repository.NewMovieRepo(db),
		theatres: repository.NewTheatreRepo(db),
		users:    repository.NewUserRepo(db),
		tickets:  repository.NewTicketRepo(db),
		reviews:  repository.NewReviewRepo(db),
	}
	ctx := context.Background()

	log.Info("clearing db")
	if err := wipe(ctx, db); err != nil {
		log.Error("clear failed", "error", err)
		os.Exit(1)
	}
	log.Info("starting seed")
	steps := []struct {
		name string
		fn   func(context.Context) ([]uint64, error)
	}{
		{"movies", s.seedMovies},
		{"theatres", s.seedTheatres},
		{"users", s.seedUsers},
	}
	ids := map[string][]uint64{}
	for _, st := range steps {
		out, err := st.fn(ctx)
		if err != nil {
			log.Error("seeding failed", "step", st.name, "error", err)
			os.Exit(1)
		}
		ids[st.name] = out
		log.Info("seeded", "step", st.name, "rows", len(out))
	}
	if err := s.seedTickets(ctx, ids["users"], ids["movies"], ids["theatres"]); err != nil {
		log.Error("seeding failed", "step", "tickets", "error", err)
		os.Exit(1)
	}
	if err := s.seedReviews(ctx, ids["users"], ids["movies"]); err != nil {
		log.Error("seeding failed", "step", "reviews", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed successfully")
}

// wipe deletes dependents before their owners so it works with or
// without foreign key enforcement.
func wipe(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.Review{}, &model.Ticket{}, &model.User{}, &model.Theatre{}, &model.Movie{}} {
			if err := tx.Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *seeder) seedMovies(ctx context.Context) ([]uint64, error) {
	now := time.Now()
	ids := make([]uint64, 0, numMovies)
	for i := 0; i < numMovies; i++ {
		release := s.fake.DateRange(now.AddDate(0, -1, 0), now.AddDate(0, 2, 0))
		m, err := model.NewMovie(model.MovieFields{
			Title:       s.fake.MovieName(),
			Genre:       s.fake.RandomString(genres),
			Director:    s.fake.Name(),
			ReleaseDate: release.Format(model.ReleaseDateLayout),
			PosterImage: s.fake.URL(),
			TrailerURL:  s.fake.URL(),
		}, now)
		if err != nil {
			return nil, err
		}
		if err := s.movies.Create(ctx, m); err != nil {
			return nil, err
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (s *seeder) seedTheatres(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0, numTheatres)
	for i := 0; i < numTheatres; i++ {
		t, err := model.NewTheatre(model.TheatreFields{
			Name:     s.fake.RandomString(theatreNames),
			Location: s.fake.RandomString(theatreLocations),
			Capacity: s.fake.IntRange(50, 100),
		})
		if err != nil {
			return nil, err
		}
		if err := s.theatres.Create(ctx, t); err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// seedUsers skips generated usernames or emails that collide with an
// earlier row.
func (s *seeder) seedUsers(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0, numUsers)
	for len(ids) < numUsers {
		u, err := model.NewUser(s.fake.Username(), s.fake.Email(),
			s.fake.Password(true, true, true, false, false, 12), s.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.users.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue
			}
			return nil, err
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *seeder) seedTickets(ctx context.Context, users, movies, theatres []uint64) error {
	now := time.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < numTickets; i++ {
		t, err := model.NewTicket(model.TicketFields{
			Quantity:     s.fake.IntRange(1, 5),
			Price:        float64(s.fake.IntRange(100, 500)),
			PurchaseDate: s.fake.DateRange(yearStart, now).Format(serializer.SubmissionDateLayout),
			Showtime:     s.fake.DateRange(monthStart, now).Format(serializer.SubmissionDateLayout),
			Screen:       s.fake.IntRange(1, 5),
			UserID:       pick(s.fake, users),
			MovieID:      pick(s.fake, movies),
			TheatreID:    pick(s.fake, theatres),
		})
		if err != nil {
			return err
		}
		if err := s.tickets.Create(ctx, t); err != nil {
			return err
		}
	}
	s.log.Info("seeded", "step", "tickets", "rows", numTickets)
	return nil
}

func (s *seeder) seedReviews(ctx context.Context, users, movies []uint64) error {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < numReviews; i++ {
		r, err := model.NewReview(model.ReviewFields{
			Rating:      s.fake.IntRange(1, 5),
			Comment:     s.fake.Sentence(12),
			UserID:      pick(s.fake, users),
			MovieID:     pick(s.fake, movies),
			SubmittedAt: s.fake.DateRange(monthStart, now),
		}, now)
		if err != nil {
			return err
		}
		if err := s.reviews.Create(ctx, r); err != nil {
			return err
		}
	}
	s.log.Info("seeded", "step", "reviews", "rows", numReviews)
	return nil
}

func pick(f *gofakeit.Faker, ids []uint64) uint64 {
	return ids[f.IntRange(0, len(ids)-1)]
}
