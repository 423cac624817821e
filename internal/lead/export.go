package lead

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/garygao333/chert-number-search/internal/model"
)

// csvHeaders is the export column order.
var csvHeaders = []string{
	"Name", "Source", "Role", "Company", "Phone",
	"Email", "LinkedIn", "Location", "Headline", "Added At",
}

// sourceLabel maps the wire source tag to its display name.
func sourceLabel(s model.Source) string {
	if s == model.SourceAviato {
		return "Aviato"
	}
	return "Forager"
}

// WriteCSV writes leads as CSV in list order. Quoting follows RFC 4180 via
// encoding/csv: fields containing commas, quotes or newlines are quoted
// with embedded quotes doubled.
func WriteCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return eris.Wrap(err, "lead: write csv header")
	}

	for _, l := range leads {
		row := []string{
			l.FullName,
			sourceLabel(l.Source),
			l.RoleTitle,
			l.CompanyName,
			l.PhoneNumber,
			l.Email,
			l.LinkedinURL,
			l.Location,
			l.Headline,
			l.AddedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "lead: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "lead: flush csv")
}

// ExportFilename names the export file with the given date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("leads_%s.csv", now.Format("2006-01-02"))
}
