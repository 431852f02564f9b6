// AngelaMos | 2026
// store.go

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carterperez-dev/templates/forms-backend/internal/config"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

// Stores holds the repositories for the configured backend. Every id that
// leaves a repository is a canonical string.
type Stores struct {
	Driver      string
	Users       user.Repository
	Forms       form.Repository
	Submissions submission.Repository

	// DBStats is only set for the relational backend.
	DBStats func() sql.DBStats

	ping  func(ctx context.Context) error
	close func() error
}

func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Database)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openPostgres(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Stores, error) {
	db, err := core.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Stores{
		Driver:      config.DriverPostgres,
		Users:       user.NewRepository(db.DB),
		Forms:       form.NewRepository(db.DB),
		Submissions: submission.NewRepository(db.DB),
		DBStats:     db.Stats,
		ping:        db.Ping,
		close:       db.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Stores, error) {
	m, err := core.NewMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	users, err := user.NewMongoRepository(ctx, m.DB)
	if err != nil {
		//nolint:errcheck // cleanup on init failure
		_ = m.Close()
		return nil, err
	}

	submissions, err := submission.NewMongoRepository(ctx, m.DB)
	if err != nil {
		//nolint:errcheck // cleanup on init failure
		_ = m.Close()
		return nil, err
	}

	return &Stores{
		Driver:      config.DriverMongo,
		Users:       users,
		Forms:       form.NewMongoRepository(m.DB),
		Submissions: submissions,
		ping:        m.Ping,
		close:       m.Close,
	}, nil
}

func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
