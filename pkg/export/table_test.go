package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, Table{
		Headers: []string{"Time", "Monday"},
		Rows:    [][]string{{"09:00", "sit, stay"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Time,Monday\n09:00,\"sit, stay\"\n", string(out))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	_, err := Render(FormatCSV, Table{Headers: []string{"a", "b"}, Rows: [][]string{{"only one"}}})
	assert.Error(t, err)

	_, err = Render(FormatPDF, Table{})
	assert.Error(t, err)
}

func TestRenderPDFPaginates(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"09:00", "a long note that should wrap across more than one line inside a narrow column"})
	}
	out, err := RenderPDF(Table{Title: "Training plan", Headers: []string{"Time", "Monday"}, Rows: rows})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
