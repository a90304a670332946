package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{in: "DNI", want: DocumentTypeDNI},
		{in: "dni", want: DocumentTypeDNI},
		{in: " passport ", want: DocumentTypePassport},
		{in: "Other", want: DocumentTypeOther},
		{in: "0", want: DocumentTypeDNI},
		{in: "1", want: DocumentTypePassport},
		{in: "2", want: DocumentTypeOther},
		{in: "3", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "license", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocumentType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentType_Valid(t *testing.T) {
	assert.True(t, DocumentTypeDNI.Valid())
	assert.True(t, DocumentTypePassport.Valid())
	assert.True(t, DocumentTypeOther.Valid())
	assert.False(t, DocumentType("dni").Valid())
	assert.False(t, DocumentType("").Valid())
}

func TestClient_UpdateHelpersDoNotMutate(t *testing.T) {
	orig := Client{
		ID:        "id-1",
		FirstName: "Ana",
		LastName:  "Diaz",
		CV:        &FileRef{Name: "old.pdf", Location: "cv/old.pdf"},
	}
	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	updated := orig.
		WithPersonal("Eva", "Ruiz", dob).
		WithCV(FileRef{Name: "new.pdf", Location: "cv/new.pdf"}).
		WithPhoto(FileRef{Name: "p.jpg", Location: "photo/p.jpg"}).
		Touched(now)

	assert.Equal(t, "Ana", orig.FirstName)
	assert.Equal(t, "old.pdf", orig.CV.Name)
	assert.Nil(t, orig.Photo)
	assert.Nil(t, orig.UpdatedAt)

	assert.Equal(t, "Eva", updated.FirstName)
	assert.Equal(t, "Ruiz", updated.LastName)
	assert.Equal(t, dob, updated.DateOfBirth)
	assert.Equal(t, "new.pdf", updated.CV.Name)
	assert.Equal(t, "p.jpg", updated.Photo.Name)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)
}

func TestClient_ViewHidesLocations(t *testing.T) {
	c := Client{
		ID:             "id-1",
		FirstName:      "Ana",
		LastName:       "Diaz",
		DateOfBirth:    time.Date(1995, 3, 2, 0, 0, 0, 0, time.UTC),
		DocumentType:   DocumentTypeDNI,
		DocumentNumber: "555",
		CV:             &FileRef{Name: "a.pdf", Location: "cv/a.pdf"},
		Photo:          &FileRef{Name: "b.jpg", Location: "photo/b.jpg"},
		CreatedAt:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(c.View())
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "1995-03-02", body["dateOfBirth"])
	assert.Equal(t, "DNI", body["documentType"])
	assert.Equal(t, "a.pdf", body["curriculumVitaeFileName"])
	assert.Equal(t, "b.jpg", body["photoFileName"])
	assert.Nil(t, body["updatedAt"])
	assert.NotContains(t, string(b), "cv/a.pdf")
	assert.NotContains(t, string(b), "photo/b.jpg")
}

func TestClient_ViewWithoutFiles(t *testing.T) {
	v := Client{ID: "id"}.View()
	assert.Empty(t, v.CurriculumVitaeFileName)
	assert.Empty(t, v.PhotoFileName)
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2001-12-31"`), &d))
	assert.Equal(t, "2001-12-31", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2001"`), &d))
}
