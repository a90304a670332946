package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for dates of birth.
const DateLayout = "2006-01-02"

// DocumentType is the kind of identity document a client registered with.
type DocumentType string

const (
	DocumentTypeDNI      DocumentType = "DNI"
	DocumentTypePassport DocumentType = "Passport"
	DocumentTypeOther    DocumentType = "Other"
)

// documentTypes is ordered; the index is the numeric form accepted by ParseDocumentType.
var documentTypes = []DocumentType{DocumentTypeDNI, DocumentTypePassport, DocumentTypeOther}

// ParseDocumentType accepts a type name (case-insensitive) or its ordinal.
func ParseDocumentType(s string) (DocumentType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n < len(documentTypes) {
			return documentTypes[n], nil
		}
		return "", fmt.Errorf("unknown document type %q", s)
	}
	for _, t := range documentTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	for _, known := range documentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FileRef points at an uploaded file: the generated name shown to users and
// the storage location that stays internal.
type FileRef struct {
	Name     string
	Location string
}

// Client is a registered person. It is passed by value; the update helpers
// return a modified copy and leave the receiver untouched.
type Client struct {
	ID             string
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	DocumentType   DocumentType
	DocumentNumber string
	CV             *FileRef
	Photo          *FileRef
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// WithPersonal returns a copy with the personal fields replaced.
func (c Client) WithPersonal(firstName, lastName string, dateOfBirth time.Time) Client {
	c.FirstName = firstName
	c.LastName = lastName
	c.DateOfBirth = dateOfBirth
	return c
}

// WithCV returns a copy referencing a new CV file.
func (c Client) WithCV(ref FileRef) Client {
	c.CV = &ref
	return c
}

// WithPhoto returns a copy referencing a new photo file.
func (c Client) WithPhoto(ref FileRef) Client {
	c.Photo = &ref
	return c
}

// Touched returns a copy whose update timestamp is at.
func (c Client) Touched(at time.Time) Client {
	at = at.UTC()
	c.UpdatedAt = &at
	return c
}

// View projects the client to its external representation.
func (c Client) View() ClientView {
	v := ClientView{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		DateOfBirth:    Date(c.DateOfBirth),
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		CreatedAt:      c.CreatedAt,
	}
	if c.CV != nil {
		v.CurriculumVitaeFileName = c.CV.Name
	}
	if c.Photo != nil {
		v.PhotoFileName = c.Photo.Name
	}
	if c.UpdatedAt != nil {
		at := *c.UpdatedAt
		v.UpdatedAt = &at
	}
	return v
}

// ClientView is what the API returns. Storage locations are never part of it.
type ClientView struct {
	ID                      string       `json:"id"`
	FirstName               string       `json:"firstName"`
	LastName                string       `json:"lastName"`
	DateOfBirth             Date         `json:"dateOfBirth" swaggertype:"string" example:"1995-03-02"`
	DocumentType            DocumentType `json:"documentType" example:"DNI"`
	DocumentNumber          string       `json:"documentNumber"`
	CurriculumVitaeFileName string       `json:"curriculumVitaeFileName"`
	PhotoFileName           string       `json:"photoFileName"`
	CreatedAt               time.Time    `json:"createdAt"`
	UpdatedAt               *time.Time   `json:"updatedAt"`
}

// Date is a calendar date that marshals as YYYY-MM-DD.
type Date time.Time

func (d Date) String() string { return time.Time(d).Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
