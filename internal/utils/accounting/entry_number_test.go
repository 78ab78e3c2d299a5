package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryNumberPrefix(t *testing.T) {
	date := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "JE-20240131-", EntryNumberPrefix(date))
}

func TestFormatEntryNumber(t *testing.T) {
	date := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "JE-20240131-0001", FormatEntryNumber(date, 1))
	assert.Equal(t, "JE-20240131-0042", FormatEntryNumber(date, 42))
	// A day with more than 9999 entries just widens the suffix.
	assert.Equal(t, "JE-20240131-12345", FormatEntryNumber(date, 12345))
}

func TestNextSequence(t *testing.T) {
	seq, err := NextSequence("")
	assert.NoError(t, err)
	assert.Equal(t, 1, seq, "Empty last number should start the day at 1")

	seq, err = NextSequence("JE-20240131-0007")
	assert.NoError(t, err)
	assert.Equal(t, 8, seq)

	seq, err = NextSequence("JE-20240131-9999")
	assert.NoError(t, err)
	assert.Equal(t, 10000, seq)
}

func TestNextSequenceMalformed(t *testing.T) {
	_, err := NextSequence("JE-20240131-")
	assert.Error(t, err, "Trailing dash with no suffix should fail")

	_, err = NextSequence("garbage")
	assert.Error(t, err)

	_, err = NextSequence("JE-20240131-notanumber")
	assert.Error(t, err)
}
