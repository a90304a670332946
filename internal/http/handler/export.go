package handler

import (
	"strings"
	"time"

	"clientportal/internal/model"
)

const (
	csvHeader          = "Id,FirstName,LastName,DateOfBirth,DocumentType,DocumentNumber,CurriculumVitaeFileName,PhotoFileName,CreatedAt,UpdatedAt"
	csvTimestampLayout = "2006-01-02 15:04:05"
	exportNameLayout   = "20060102_150405"
)

// now is the clock used for export file names.
var now = time.Now

// RenderCSV renders clients in the export format: a header line followed by one
// line per client, separated by "\n". Fields are written as-is without quoting.
func RenderCSV(views []model.ClientView) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for i, v := range views {
		if i > 0 {
			b.WriteByte('\n')
		}
		updated := ""
		if v.UpdatedAt != nil {
			updated = v.UpdatedAt.Format(csvTimestampLayout)
		}
		b.WriteString(strings.Join([]string{
			v.ID,
			v.FirstName,
			v.LastName,
			v.DateOfBirth.String(),
			string(v.DocumentType),
			v.DocumentNumber,
			v.CurriculumVitaeFileName,
			v.PhotoFileName,
			v.CreatedAt.Format(csvTimestampLayout),
			updated,
		}, ","))
	}
	return b.String()
}

// exportFilename names the attachment after the export time.
func exportFilename(t time.Time) string {
	return "clients_" + t.Format(exportNameLayout) + ".csv"
}
