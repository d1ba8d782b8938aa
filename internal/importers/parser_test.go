package importers

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) ([]string, []Row) {
	t.Helper()
	reader, err := NewRowReader(strings.NewReader(input))
	require.NoError(t, err)

	var rows []Row
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return reader.Header(), rows
}

func TestRowReader_Basic(t *testing.T) {
	header, rows := readAll(t, "product-title,color\nWidget,Red\nGadget,Blue\n")

	assert.Equal(t, []string{"product-title", "color"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"product-title", "color"}, rows[0].Columns)
	assert.Equal(t, "Widget", rows[0].Values["product-title"])
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 3, rows[1].Line)
}

func TestRowReader_StripsBOM(t *testing.T) {
	header, rows := readAll(t, "\xEF\xBB\xBFproduct-title,color\nWidget,Red\n")

	assert.Equal(t, "product-title", header[0])
	v, ok := rows[0].Get("product-title")
	assert.True(t, ok)
	assert.Equal(t, "Widget", v)
}

func TestRowReader_StripsBOMBeforeQuotedHeader(t *testing.T) {
	header, _ := readAll(t, "\xEF\xBB\xBF\"product-title\",\"color\"\nWidget,Red\n")
	assert.Equal(t, []string{"product-title", "color"}, header)
}

func TestRowReader_TrimsHeaderNames(t *testing.T) {
	header, _ := readAll(t, " product-title , color\nWidget,Red\n")
	assert.Equal(t, []string{"product-title", "color"}, header)
}

func TestRowReader_ShortRow(t *testing.T) {
	_, rows := readAll(t, "a,b,c\n1\n")

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a"}, rows[0].Columns)
	_, ok := rows[0].Get("b")
	assert.False(t, ok)
}

func TestRowReader_DuplicateHeaderLastValueWins(t *testing.T) {
	_, rows := readAll(t, "color,size,color\nRed,41,Blue\n")

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"color", "size"}, rows[0].Columns)
	assert.Equal(t, "Blue", rows[0].Values["color"])
}

func TestRowReader_SkipsUnnamedColumns(t *testing.T) {
	_, rows := readAll(t, "color,,size\nRed,ignored,41\n")

	assert.Equal(t, []string{"color", "size"}, rows[0].Columns)
}

func TestRowReader_QuotedMultilineValue(t *testing.T) {
	_, rows := readAll(t, "product-title,description\nWidget,\"line one\nline two\"\nGadget,x\n")

	require.Len(t, rows, 2)
	assert.Equal(t, "line one\nline two", rows[0].Values["description"])
	assert.Equal(t, 4, rows[1].Line)
}

func TestRowReader_SkipsBlankLines(t *testing.T) {
	_, rows := readAll(t, "product-title\nA\n\n\nB\n")
	assert.Len(t, rows, 2)
}

func TestNewRowReader_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":         "",
		"only bom":      "\xEF\xBB\xBF",
		"blank names":   " , \n",
		"only newlines": "\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewRowReader(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestLineError(t *testing.T) {
	err := &LineError{Line: 7, Err: io.ErrUnexpectedEOF}
	assert.Equal(t, "line 7: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
