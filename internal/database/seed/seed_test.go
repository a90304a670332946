package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clientportal/internal/logging"
	"clientportal/internal/model"
	"clientportal/internal/repository"
	"clientportal/internal/repository/mocks"
)

var discard = logging.Discard()

func TestDemo_SeedsEmptyTable(t *testing.T) {
	repo := new(mocks.MockClientRepository)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	repo.On("ListActive", mock.Anything).Return([]model.Client{}, nil)
	repo.On("Add", mock.Anything, mock.MatchedBy(func(c model.Client) bool {
		return c.FirstName == "Juan" &&
			c.LastName == "Pérez" &&
			c.DocumentType == model.DocumentTypeDNI &&
			c.DocumentNumber == "12345678" &&
			c.CV.Name == "cv_test.pdf" && c.CV.Location == "" &&
			c.Photo.Name == "photo_test.jpg" &&
			c.DateOfBirth.Equal(time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)) &&
			c.CreatedAt.Equal(now) &&
			c.UpdatedAt == nil
	})).Return(func(_ context.Context, c model.Client) model.Client { return c }, nil)

	seeded, err := Demo(context.Background(), repo, now, discard)
	require.NoError(t, err)
	assert.True(t, seeded)
	repo.AssertExpectations(t)
}

func TestDemo_SkipsWhenClientsExist(t *testing.T) {
	repo := new(mocks.MockClientRepository)
	repo.On("ListActive", mock.Anything).Return([]model.Client{{ID: "x"}}, nil)

	seeded, err := Demo(context.Background(), repo, time.Now(), discard)
	require.NoError(t, err)
	assert.False(t, seeded)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestDemo_DuplicateIsNotAnError(t *testing.T) {
	repo := new(mocks.MockClientRepository)
	repo.On("ListActive", mock.Anything).Return([]model.Client{}, nil)
	repo.On("Add", mock.Anything, mock.Anything).Return(model.Client{}, repository.ErrDuplicate)

	seeded, err := Demo(context.Background(), repo, time.Now(), discard)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestDemo_ListError(t *testing.T) {
	repo := new(mocks.MockClientRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))

	_, err := Demo(context.Background(), repo, time.Now(), discard)
	assert.ErrorContains(t, err, "db down")
}
