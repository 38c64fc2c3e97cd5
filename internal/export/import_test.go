package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plushify/plushify-api/internal/models"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFName, Category ,stock\n" +
		"Shampoo,Cabelo,10\n" +
		"\n" +
		"\"Esmalte, vermelho\",Unhas\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Shampoo", rows[0].Get("name"))
	assert.Equal(t, "Cabelo", rows[0].Get("Category"))
	assert.Equal(t, "10", rows[0].Get("stock"))

	assert.Equal(t, "Esmalte, vermelho", rows[1].Get("name"))
	assert.Equal(t, "", rows[1].Get("stock"))
}

func TestReadCSVLineNumbers(t *testing.T) {
	input := "name,notes\n" +
		"\n" +
		"Ana,\"linha1\nlinha2\"\n" +
		"Bia,x\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Line)
	assert.Equal(t, "linha1\nlinha2", rows[0].Get("notes"))
	assert.Equal(t, "Bia", rows[1].Get("name"))
	assert.Equal(t, 5, rows[1].Line)

	t.Run("bom does not shift lines", func(t *testing.T) {
		rows, err := ReadCSV(strings.NewReader("\xEF\xBB\xBFname\nAna\n\nBia\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, 4, rows[1].Line)
	})
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadCSV(strings.NewReader("name\n\xff\xfe\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeJSON(t *testing.T) {
	clients, err := DecodeJSON[models.Client](strings.NewReader(`[{"name":"Ana","phone":"11"}]`))
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ana", clients[0].Name)

	_, err = DecodeJSON[models.Client](strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = DecodeJSON[models.Client](strings.NewReader(`{"name":"x"}`))
	assert.Error(t, err)
}
