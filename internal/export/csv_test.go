package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"taxdesk/internal/domain"
	"taxdesk/internal/export"
)

func sampleRow() export.RegisterRow {
	submitted := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)
	return export.RegisterRow{
		Filing: domain.TaxFiling{
			ID:              uuid.New(),
			TaxType:         domain.TaxTypeGST,
			TaxYear:         2025,
			Period:          "2025-Q2",
			Status:          domain.FilingStatusSubmitted,
			DeclaredAmount:  decimal.NewFromFloat(1000),
			TaxableAmount:   decimal.NewFromFloat(1000),
			ComputedTax:     decimal.NewFromFloat(150),
			AuthorityStatus: domain.AuthorityStatusNotSent,
			SubmittedAt:     &submitted,
			CreatedAt:       time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		},
		Client: domain.Client{
			ID:        uuid.New(),
			Name:      "Acme Ltd",
			TaxNumber: "GST-123456",
		},
	}
}

func TestCSVWriter_HeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf)

	assert.NoError(t, w.WriteHeader())
	assert.NoError(t, w.WriteRows([]export.RegisterRow{sampleRow()}))
	w.Flush()
	assert.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, "Client", header[0])
	assert.Equal(t, "Tax Due", header[8])
	assert.Equal(t, "Created At", header[13])

	row := records[1]
	assert.Equal(t, "Acme Ltd", row[0])
	assert.Equal(t, "GST-123456", row[1])
	assert.Equal(t, "gst", row[2])
	assert.Equal(t, "2025", row[3])
	assert.Equal(t, "1000.00", row[6])
	assert.Equal(t, "150.00", row[8])
	assert.Equal(t, "2025-07-14T09:30:00Z", row[11])
	assert.Equal(t, "", row[12], "unreviewed filing leaves Reviewed At blank")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Acme_Ltd_register", export.SanitizeFilename("Acme Ltd / register"))
	assert.Equal(t, "q2_filings", export.SanitizeFilename("  q2:: filings!  "))
	assert.Equal(t, "report", export.SanitizeFilename("__report__"))

	long := strings.Repeat("a", 150)
	assert.Len(t, export.SanitizeFilename(long), 100)
}

func TestBuildFilename(t *testing.T) {
	name := export.BuildFilename("filings register", "csv")
	assert.True(t, strings.HasPrefix(name, "filings_register_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.Contains(t, name, time.Now().Format("2006-01-02"))
}
