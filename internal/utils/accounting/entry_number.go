package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// entryNumberPrefix is the scheme for human-readable entry numbers:
// JE-{YYYYMMDD}-{seq:04d}, with the sequence restarting each posting day.
const entryNumberPrefix = "JE"

// EntryNumberPrefix returns the shared prefix for all entry numbers on a day,
// e.g. "JE-20240131-".
func EntryNumberPrefix(date time.Time) string {
	return fmt.Sprintf("%s-%s-", entryNumberPrefix, date.Format("20060102"))
}

// FormatEntryNumber renders an entry number for the given date and sequence.
func FormatEntryNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", EntryNumberPrefix(date), seq)
}

// NextSequence parses the trailing numeric suffix of the most recent entry
// number for a day and increments it. An empty lastNumber means no entry
// exists for the day yet and the sequence starts at 1.
func NextSequence(lastNumber string) (int, error) {
	if lastNumber == "" {
		return 1, nil
	}
	idx := strings.LastIndex(lastNumber, "-")
	if idx < 0 || idx == len(lastNumber)-1 {
		return 0, fmt.Errorf("malformed entry number %q", lastNumber)
	}
	seq, err := strconv.Atoi(lastNumber[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed entry number %q: %w", lastNumber, err)
	}
	return seq + 1, nil
}
