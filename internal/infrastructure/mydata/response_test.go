package mydata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infra "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

func TestParseResponseDoc_Exito(t *testing.T) {
	entries, err := infra.ParseResponseDoc([]byte(responseSuccess))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.True(t, e.Accepted())
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "400001234567890", e.Mark)
	assert.Empty(t, e.Errors)
}

func TestParseResponseDoc_Errores(t *testing.T) {
	entries, err := infra.ParseResponseDoc([]byte(responseValidationError))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Accepted())
	assert.Equal(t, "ValidationError", entries[0].StatusCode)
	assert.Len(t, entries[0].Errors, 2)
}

func TestParseResponseDoc_Vacio(t *testing.T) {
	_, err := infra.ParseResponseDoc([]byte(`<ResponseDoc></ResponseDoc>`))
	assert.Error(t, err)
	_, err = infra.ParseResponseDoc([]byte(`not xml`))
	assert.Error(t, err)
}
