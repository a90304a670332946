package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clientportal/internal/model"
	"clientportal/internal/repository"
	"clientportal/internal/storage"
)

// DefaultMaxFileSize is the upload limit when Config.MaxFileSize is zero.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

const (
	maxNameLength           = 100
	maxDocumentNumberLength = 20
)

// Upload is one file from a multipart request.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateInput holds everything needed to register a client.
type CreateInput struct {
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	DocumentType   model.DocumentType
	DocumentNumber string
	CV             *Upload
	Photo          *Upload
}

// UpdateInput replaces the personal fields and, when set, either file.
type UpdateInput struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	CV          *Upload
	Photo       *Upload
}

// ClientService defines the use cases for managing clients.
type ClientService interface {
	// List returns every active client, newest first.
	List(ctx context.Context) ([]model.ClientView, error)

	// Get returns the client view. The bool is false when the client is unknown or deleted.
	Get(ctx context.Context, id string) (model.ClientView, bool, error)

	// Create validates the input, stores both files and persists a new client.
	Create(ctx context.Context, in CreateInput) (model.ClientView, error)

	// Update overwrites the personal fields and replaces the files that were provided.
	Update(ctx context.Context, id string, in UpdateInput) (model.ClientView, error)

	// Delete soft-deletes the client. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}

// Config tunes a ClientService.
type Config struct {
	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize int64
	Logger      *slog.Logger
}

// fileRule describes what an upload slot accepts.
type fileRule struct {
	field      string
	category   storage.Category
	extensions []string
	message    string
}

var (
	cvRule = fileRule{
		field:      "curriculumVitae",
		category:   storage.CategoryCV,
		extensions: []string{".pdf"},
		message:    "CV must be a PDF file",
	}
	photoRule = fileRule{
		field:      "photo",
		category:   storage.CategoryPhoto,
		extensions: []string{".jpg", ".jpeg"},
		message:    "photo must be a JPG or JPEG file",
	}
)

// clientService is a concrete implementation of ClientService.
type clientService struct {
	store       storage.Storage
	repo        repository.ClientRepository
	maxFileSize int64
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewClientService constructs a new ClientService.
func NewClientService(store storage.Storage, repo repository.ClientRepository, cfg Config) ClientService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &clientService{
		store:       store,
		repo:        repo,
		maxFileSize: cfg.MaxFileSize,
		logger:      cfg.Logger.With("component", "service"),
		tracer:      otel.Tracer("clientportal/service"),
		now:         time.Now,
	}
}

func (s *clientService) List(ctx context.Context) (views []model.ClientView, err error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.List")
	defer func() { finish(span, err) }()

	clients, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	views = make([]model.ClientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, c.View())
	}
	span.SetAttributes(attribute.Int("clients.count", len(views)))
	return views, nil
}

func (s *clientService) Get(ctx context.Context, id string) (view model.ClientView, found bool, err error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Get", trace.WithAttributes(attribute.String("client.id", id)))
	defer func() { finish(span, err) }()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ClientView{}, false, nil
		}
		return model.ClientView{}, false, fmt.Errorf("get client: %w", err)
	}
	return c.View(), true, nil
}

func (s *clientService) Create(ctx context.Context, in CreateInput) (view model.ClientView, err error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Create",
		trace.WithAttributes(attribute.String("client.document_type", string(in.DocumentType))))
	defer func() { finish(span, err) }()

	if err := validatePersonal(in.FirstName, in.LastName, in.DateOfBirth); err != nil {
		return model.ClientView{}, err
	}
	if err := validateDocument(in.DocumentType, in.DocumentNumber); err != nil {
		return model.ClientView{}, err
	}
	if err := requireUpload(in.CV, cvRule); err != nil {
		return model.ClientView{}, err
	}
	if err := requireUpload(in.Photo, photoRule); err != nil {
		return model.ClientView{}, err
	}

	exists, err := s.repo.ExistsActive(ctx, in.DocumentNumber, in.DocumentType)
	if err != nil {
		return model.ClientView{}, fmt.Errorf("check document: %w", err)
	}
	if exists {
		return model.ClientView{}, conflictError("a client with that document already exists")
	}

	if err := s.validateUpload(in.CV, cvRule); err != nil {
		return model.ClientView{}, err
	}
	if err := s.validateUpload(in.Photo, photoRule); err != nil {
		return model.ClientView{}, err
	}

	cv, err := s.store.Save(ctx, in.CV.Content, in.CV.Filename, cvRule.category)
	if err != nil {
		return model.ClientView{}, fmt.Errorf("save cv: %w", err)
	}
	photo, err := s.store.Save(ctx, in.Photo.Content, in.Photo.Filename, photoRule.category)
	if err != nil {
		s.discard(ctx, cv.Location)
		return model.ClientView{}, fmt.Errorf("save photo: %w", err)
	}

	client := model.Client{
		ID:             uuid.NewString(),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		DateOfBirth:    in.DateOfBirth,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		CV:             &model.FileRef{Name: cv.Name, Location: cv.Location},
		Photo:          &model.FileRef{Name: photo.Name, Location: photo.Location},
		CreatedAt:      s.now().UTC(),
	}

	stored, err := s.repo.Add(ctx, client)
	if err != nil {
		s.discard(ctx, cv.Location, photo.Location)
		if errors.Is(err, repository.ErrDuplicate) {
			return model.ClientView{}, conflictError("a client with that document already exists")
		}
		return model.ClientView{}, fmt.Errorf("save client: %w", err)
	}

	span.SetAttributes(attribute.String("client.id", stored.ID))
	s.logger.Info("client created", "client_id", stored.ID)
	return stored.View(), nil
}

func (s *clientService) Update(ctx context.Context, id string, in UpdateInput) (view model.ClientView, err error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Update", trace.WithAttributes(attribute.String("client.id", id)))
	defer func() { finish(span, err) }()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ClientView{}, notFoundError("client not found")
		}
		return model.ClientView{}, fmt.Errorf("get client: %w", err)
	}

	if err := validatePersonal(in.FirstName, in.LastName, in.DateOfBirth); err != nil {
		return model.ClientView{}, err
	}
	// Both replacements are checked before any artifact is removed.
	if in.CV != nil {
		if err := s.validateUpload(in.CV, cvRule); err != nil {
			return model.ClientView{}, err
		}
	}
	if in.Photo != nil {
		if err := s.validateUpload(in.Photo, photoRule); err != nil {
			return model.ClientView{}, err
		}
	}

	next := current.WithPersonal(in.FirstName, in.LastName, in.DateOfBirth)

	if in.CV != nil {
		ref, err := s.replace(ctx, current.CV, in.CV, cvRule)
		if err != nil {
			return model.ClientView{}, err
		}
		next = next.WithCV(ref)
	}
	if in.Photo != nil {
		ref, err := s.replace(ctx, current.Photo, in.Photo, photoRule)
		if err != nil {
			return model.ClientView{}, err
		}
		next = next.WithPhoto(ref)
	}

	stored, err := s.repo.Update(ctx, next.Touched(s.now()))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.ClientView{}, notFoundError("client not found")
		case errors.Is(err, repository.ErrDuplicate):
			return model.ClientView{}, conflictError("a client with that document already exists")
		}
		return model.ClientView{}, fmt.Errorf("update client: %w", err)
	}

	s.logger.Info("client updated", "client_id", stored.ID)
	return stored.View(), nil
}

func (s *clientService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Delete", trace.WithAttributes(attribute.String("client.id", id)))
	defer func() { finish(span, err) }()

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.logger.Info("client deleted", "client_id", id)
	return nil
}

// replace removes the old artifact, if any, and stores the new upload.
func (s *clientService) replace(ctx context.Context, old *model.FileRef, u *Upload, rule fileRule) (model.FileRef, error) {
	if old != nil && old.Location != "" {
		if err := s.store.Delete(ctx, old.Location); err != nil {
			return model.FileRef{}, fmt.Errorf("delete old %s: %w", rule.category, err)
		}
	}
	saved, err := s.store.Save(ctx, u.Content, u.Filename, rule.category)
	if err != nil {
		return model.FileRef{}, fmt.Errorf("save %s: %w", rule.category, err)
	}
	return model.FileRef{Name: saved.Name, Location: saved.Location}, nil
}

// discard deletes files written by a create that failed later on. Failures are
// logged; the caller returns the original error.
func (s *clientService) discard(ctx context.Context, locations ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, loc := range locations {
		if err := s.store.Delete(ctx, loc); err != nil {
			s.logger.Warn("failed to remove orphaned file", "location", loc, "error", err)
		}
	}
}

func (s *clientService) validateUpload(u *Upload, rule fileRule) error {
	if u.Size > s.maxFileSize {
		return &ValidationError{
			Field:   rule.field,
			Message: fmt.Sprintf("file cannot be larger than %s", units.BytesSize(float64(s.maxFileSize))),
		}
	}
	if !slices.Contains(rule.extensions, storage.Extension(u.Filename)) {
		return &ValidationError{Field: rule.field, Message: rule.message}
	}
	return nil
}

func requireUpload(u *Upload, rule fileRule) error {
	if u == nil || u.Content == nil {
		return &ValidationError{Field: rule.field, Message: rule.field + " is required"}
	}
	return nil
}

func validatePersonal(firstName, lastName string, dateOfBirth time.Time) error {
	if err := requireText("firstName", firstName, maxNameLength); err != nil {
		return err
	}
	if err := requireText("lastName", lastName, maxNameLength); err != nil {
		return err
	}
	if dateOfBirth.IsZero() {
		return &ValidationError{Field: "dateOfBirth", Message: "dateOfBirth is required"}
	}
	return nil
}

func validateDocument(docType model.DocumentType, number string) error {
	if !docType.Valid() {
		return &ValidationError{Field: "documentType", Message: "documentType is invalid"}
	}
	return requireText("documentNumber", number, maxDocumentNumberLength)
}

func requireText(field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if utf8.RuneCountInString(value) > limit {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, limit)}
	}
	return nil
}

func finish(span trace.Span, err error) {
	if err != nil && KindOf(err) == KindUnexpected {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if err != nil {
		span.SetAttributes(attribute.String("error.kind", KindOf(err).String()))
	}
	span.End()
}
