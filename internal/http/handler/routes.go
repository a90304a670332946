package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clientportal/internal/database"
	"clientportal/internal/model"
	"clientportal/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// /api/clients/export is registered before /api/clients/:id so it is not taken for an id.
func RegisterRoutes(app *fiber.App, db database.Pinger, svc service.ClientService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/api/clients", ListClients(svc))
	app.Post("/api/clients", CreateClient(svc))
	app.Get("/api/clients/export", ExportClients(svc))
	app.Get("/api/clients/:id", GetClient(svc))
	app.Put("/api/clients/:id", UpdateClient(svc))
	app.Delete("/api/clients/:id", DeleteClient(svc))
}

// ListClients returns every active client.
//
// @Summary List clients
// @Tags clients
// @Produce json
// @Success 200 {array} model.ClientView
// @Failure 500 {object} errorPayload
// @Router /api/clients [get]
func ListClients(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err, "failed to list clients")
		}
		return c.JSON(views)
	}
}

// GetClient returns one active client.
//
// @Summary Get a client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} model.ClientView
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/clients/{id} [get]
func GetClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return invalidID(c)
		}
		view, found, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "failed to get client")
		}
		if !found {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "client not found", "")
		}
		return c.JSON(view)
	}
}

// CreateClient registers a client with its CV and photo.
//
// @Summary Create a client
// @Tags clients
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param dateOfBirth formData string true "Date of birth (YYYY-MM-DD)"
// @Param documentType formData string true "DNI, Passport or Other"
// @Param documentNumber formData string true "Document number"
// @Param curriculumVitae formData file true "CV (.pdf)"
// @Param photo formData file true "Photo (.jpg, .jpeg)"
// @Success 201 {object} model.ClientView
// @Header 201 {string} Location "/api/clients/{id}"
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/clients [post]
func CreateClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dob, err := parseDateOfBirth(c.FormValue("dateOfBirth"))
		if err != nil {
			return writeServiceError(c, err, "")
		}

		cv, closeCV, err := formUpload(c, "curriculumVitae")
		if err != nil {
			return writeServiceError(c, err, "failed to read curriculumVitae")
		}
		defer closeCV()
		photo, closePhoto, err := formUpload(c, "photo")
		if err != nil {
			return writeServiceError(c, err, "failed to read photo")
		}
		defer closePhoto()

		view, err := svc.Create(c.UserContext(), service.CreateInput{
			FirstName:      c.FormValue("firstName"),
			LastName:       c.FormValue("lastName"),
			DateOfBirth:    dob,
			DocumentType:   parseDocumentType(c.FormValue("documentType")),
			DocumentNumber: c.FormValue("documentNumber"),
			CV:             cv,
			Photo:          photo,
		})
		if err != nil {
			return writeServiceError(c, err, "failed to create client")
		}

		c.Location("/api/clients/" + view.ID)
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// UpdateClient overwrites the personal fields and optionally replaces files.
//
// @Summary Update a client
// @Tags clients
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param dateOfBirth formData string true "Date of birth (YYYY-MM-DD)"
// @Param curriculumVitae formData file false "Replacement CV (.pdf)"
// @Param photo formData file false "Replacement photo (.jpg, .jpeg)"
// @Success 200 {object} model.ClientView
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/clients/{id} [put]
func UpdateClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return invalidID(c)
		}

		dob, err := parseDateOfBirth(c.FormValue("dateOfBirth"))
		if err != nil {
			return writeServiceError(c, err, "")
		}

		cv, closeCV, err := formUpload(c, "curriculumVitae")
		if err != nil {
			return writeServiceError(c, err, "failed to read curriculumVitae")
		}
		defer closeCV()
		photo, closePhoto, err := formUpload(c, "photo")
		if err != nil {
			return writeServiceError(c, err, "failed to read photo")
		}
		defer closePhoto()

		view, err := svc.Update(c.UserContext(), id, service.UpdateInput{
			FirstName:   c.FormValue("firstName"),
			LastName:    c.FormValue("lastName"),
			DateOfBirth: dob,
			CV:          cv,
			Photo:       photo,
		})
		if err != nil {
			return writeServiceError(c, err, "failed to update client")
		}
		return c.JSON(view)
	}
}

// DeleteClient soft-deletes a client. Unknown ids still answer 204.
//
// @Summary Delete a client
// @Tags clients
// @Param id path string true "Client ID (UUID)"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/clients/{id} [delete]
func DeleteClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err, "failed to delete client")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ExportClients downloads the active clients as CSV.
//
// @Summary Export clients as CSV
// @Tags clients
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 500 {object} errorPayload
// @Router /api/clients/export [get]
func ExportClients(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err, "failed to export clients")
		}
		c.Attachment(exportFilename(now()))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.SendString(RenderCSV(views))
	}
}

// formUpload opens an optional multipart file. A missing field yields a nil upload.
func formUpload(c *fiber.Ctx, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}, func() { f.Close() }, nil
}

// parseDateOfBirth accepts YYYY-MM-DD or RFC 3339 and keeps only the date.
// An empty value is left to service validation.
func parseDateOfBirth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, &service.ValidationError{
				Field:   "dateOfBirth",
				Message: "dateOfBirth must be a date in YYYY-MM-DD format",
			}
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// parseDocumentType normalizes known names and ordinals. Anything else is passed
// through so the service reports it in its usual validation order.
func parseDocumentType(s string) model.DocumentType {
	if t, err := model.ParseDocumentType(s); err == nil {
		return t
	}
	return model.DocumentType(s)
}
