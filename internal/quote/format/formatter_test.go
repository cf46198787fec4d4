package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuoteNumber(t *testing.T) {
	issued := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

	number, err := FormatQuoteNumber("Q-{YYYY}{MM}-{SEQ4}", issued, 42)
	assert.NoError(t, err)
	assert.Equal(t, "Q-202603-0042", number)

	number, err = FormatQuoteNumber("{YY}{MM}{DD}/{SEQ}", issued, 7)
	assert.NoError(t, err)
	assert.Equal(t, "260307/7", number)
}

func TestFormatQuoteNumber_Invalid(t *testing.T) {
	issued := time.Now()

	_, err := FormatQuoteNumber("", issued, 1)
	assert.Error(t, err)

	_, err = FormatQuoteNumber("Q-{SEQ}", issued, 0)
	assert.Error(t, err)

	_, err = FormatQuoteNumber("Q-{NOPE}", issued, 1)
	assert.Error(t, err)
}
