// Package seed inserts demo data into an empty clients table.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clientportal/internal/model"
	"clientportal/internal/repository"
)

// DemoClient returns the record inserted on first start. Its files are names
// only: no artifacts exist in storage.
func DemoClient(now time.Time) model.Client {
	return model.Client{
		ID:             uuid.NewString(),
		FirstName:      "Juan",
		LastName:       "Pérez",
		DateOfBirth:    time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
		DocumentType:   model.DocumentTypeDNI,
		DocumentNumber: "12345678",
		CV:             &model.FileRef{Name: "cv_test.pdf"},
		Photo:          &model.FileRef{Name: "photo_test.jpg"},
		CreatedAt:      now.UTC(),
	}
}

// Demo adds DemoClient when there are no active clients. It reports whether a
// row was inserted.
func Demo(ctx context.Context, repo repository.ClientRepository, now time.Time, logger *slog.Logger) (bool, error) {
	logger = logger.With("component", "seed")

	existing, err := repo.ListActive(ctx)
	if err != nil {
		return false, fmt.Errorf("list clients: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("seed skipped", "active_clients", len(existing))
		return false, nil
	}

	c, err := repo.Add(ctx, DemoClient(now))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Info("seed skipped, demo document already registered")
			return false, nil
		}
		return false, fmt.Errorf("add demo client: %w", err)
	}

	logger.Info("demo client seeded", "client_id", c.ID)
	return true, nil
}
