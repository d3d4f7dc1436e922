package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"taxdesk/internal/export"
)

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteXLSX(&buf, []export.RegisterRow{sampleRow()})
	assert.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Filings")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "Client", rows[0][0])
	assert.Equal(t, "Acme Ltd", rows[1][0])
	assert.Equal(t, "gst", rows[1][2])
	assert.Equal(t, "2025", rows[1][3])
}
