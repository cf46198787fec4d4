package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter_RejectsBadInputs(t *testing.T) {
	_, err := NewFormatter("not a locale", "EUR")
	assert.Error(t, err)

	_, err = NewFormatter("it-IT", "EURO")
	assert.Error(t, err)
}

func TestFormat_ItalianEuro(t *testing.T) {
	f, err := NewFormatter("it-IT", "EUR")
	require.NoError(t, err)

	out := f.Format(1234.56)
	assert.Contains(t, out, "€")
	assert.Contains(t, out, "1.234,56")
	assert.Equal(t, "EUR", f.Code())
}

func TestFormat_USDollar(t *testing.T) {
	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)

	out := f.Format(99.9)
	assert.Contains(t, out, "$")
	assert.Contains(t, out, "99.90")
}
