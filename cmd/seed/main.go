// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/carterperez-dev/templates/forms-backend/internal/config"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/store"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	fixturePath := flag.String("fixture", "", "seed fixture (defaults to the built-in one)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *fixturePath, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, fixturePath string, logger *slog.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fx, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	stores, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	users := user.NewService(stores.Users)
	forms := form.NewService(stores.Forms)
	subs := submission.NewService(stores.Submissions, forms, users)

	s := &seeder{
		users:   users,
		forms:   forms,
		subs:    subs,
		logger:  logger,
		userIDs: make(map[string]string),
		formIDs: make(map[string]string),
	}

	if err := s.seedUsers(ctx, fx.Users); err != nil {
		return err
	}
	if err := s.seedForms(ctx, fx.Forms); err != nil {
		return err
	}
	if err := s.seedSubmissions(ctx, fx.Submissions); err != nil {
		return err
	}

	logger.Info("seed complete",
		"driver", stores.Driver,
		"users", len(s.userIDs),
		"forms_created", len(s.formIDs),
		"submissions_created", s.submissions,
	)
	return nil
}

type seeder struct {
	users  *user.Service
	forms  *form.Service
	subs   *submission.Service
	logger *slog.Logger

	userIDs     map[string]string
	formIDs     map[string]string
	submissions int
}

// seedUsers creates missing accounts and reuses existing ones by email.
func (s *seeder) seedUsers(ctx context.Context, fixtures []fixtureUser) error {
	for _, fu := range fixtures {
		existing, err := s.users.GetByEmail(ctx, fu.Email)
		if err == nil {
			s.userIDs[existing.Email] = existing.ID
			s.logger.Info("user exists, skipping", "email", existing.Email)
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("look up %s: %w", fu.Email, err)
		}

		role, err := core.ParseRole(fu.Role)
		if err != nil {
			return fmt.Errorf("user %s: %w", fu.Email, err)
		}

		hash, err := core.HashPassword(fu.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", fu.Email, err)
		}

		created, err := s.users.Create(ctx, fu.Email, hash, fu.Name, role)
		if err != nil {
			return fmt.Errorf("create user %s: %w", fu.Email, err)
		}

		s.userIDs[created.Email] = created.ID
		s.logger.Info("user created", "email", created.Email, "role", created.Role)
	}

	return nil
}

// seedForms creates forms whose title is not taken yet. Submissions are
// only seeded for forms created in this run.
func (s *seeder) seedForms(ctx context.Context, fixtures []fixtureForm) error {
	existing, err := s.forms.List(ctx)
	if err != nil {
		return fmt.Errorf("list forms: %w", err)
	}

	titles := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		titles[f.Title] = struct{}{}
	}

	for _, ff := range fixtures {
		if _, ok := titles[ff.Title]; ok {
			s.logger.Info("form exists, skipping", "title", ff.Title)
			continue
		}

		ownerID, ok := s.userIDs[ff.Owner]
		if !ok {
			return fmt.Errorf("form %q: unknown owner %s", ff.Key, ff.Owner)
		}

		created, err := s.forms.Create(ctx, ownerID, ff.request())
		if err != nil {
			return fmt.Errorf("create form %q: %w", ff.Key, err)
		}

		s.formIDs[ff.Key] = created.ID
		s.logger.Info("form created",
			"title", created.Title,
			"fields", len(created.Fields),
		)
	}

	return nil
}

func (s *seeder) seedSubmissions(
	ctx context.Context,
	fixtures []fixtureSubmission,
) error {
	for _, fs := range fixtures {
		formID, ok := s.formIDs[fs.Form]
		if !ok {
			continue
		}

		userID, ok := s.userIDs[fs.User]
		if !ok {
			return fmt.Errorf("submission for %q: unknown user %s", fs.Form, fs.User)
		}

		responses, err := fs.answers()
		if err != nil {
			return fmt.Errorf("submission for %q by %s: %w", fs.Form, fs.User, err)
		}

		if _, err := s.subs.Create(ctx, userID, submission.CreateSubmissionRequest{
			FormID:    formID,
			Responses: responses,
		}); err != nil {
			return fmt.Errorf("create submission for %q by %s: %w", fs.Form, fs.User, err)
		}

		s.submissions++
	}

	return nil
}
