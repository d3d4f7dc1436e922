package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"taxdesk/internal/domain"
)

// BOM holds the UTF-8 byte order mark for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// registerColumns defines the filings register header row.
var registerColumns = []string{
	"Client",
	"Tax Number",
	"Tax Type",
	"Tax Year",
	"Period",
	"Status",
	"Declared Amount",
	"Taxable Amount",
	"Tax Due",
	"Authority Status",
	"Authority Ref",
	"Submitted At",
	"Reviewed At",
	"Created At",
}

// RegisterRow pairs a filing with its client for export.
type RegisterRow struct {
	Filing domain.TaxFiling
	Client domain.Client
}

// CSVWriter wraps csv.Writer for exporting the filings register.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the register header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(registerColumns)
}

// WriteRows converts register rows to CSV and writes them.
func (w *CSVWriter) WriteRows(rows []RegisterRow) error {
	for i := range rows {
		if err := w.csv.Write(rowToStrings(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func rowToStrings(r *RegisterRow) []string {
	f := &r.Filing
	return []string{
		r.Client.Name,
		r.Client.TaxNumber,
		string(f.TaxType),
		fmt.Sprintf("%d", f.TaxYear),
		f.Period,
		string(f.Status),
		f.DeclaredAmount.StringFixed(2),
		f.TaxableAmount.StringFixed(2),
		f.ComputedTax.StringFixed(2),
		string(f.AuthorityStatus),
		f.AuthorityRef,
		formatTime(f.SubmittedAt),
		formatTime(f.ReviewedAt),
		f.CreatedAt.Format(time.RFC3339),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}
