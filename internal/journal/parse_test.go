package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/frontier-core/internal/journal"
)

func TestParseLineExtractsKindAndTimestamp(t *testing.T) {
	line := `{"timestamp":"2026-07-30T10:15:00Z","event":"FSDJump","StarSystem":"Sol"}`

	ev := journal.ParseLine(line)

	require.NotNil(t, ev)
	assert.Equal(t, "FSDJump", ev.Kind)
	assert.Equal(t, "Sol", ev.Str("StarSystem"))
	assert.True(t, ev.Timestamp.Equal(time.Date(2026, 7, 30, 10, 15, 0, 0, time.UTC)))
}

func TestParseLineRejectsMalformedOrEventlessLines(t *testing.T) {
	assert.Nil(t, journal.ParseLine(""))
	assert.Nil(t, journal.ParseLine("not json"))
	assert.Nil(t, journal.ParseLine(`{"foo":"bar"}`))
}

func TestParseFilePreservesOrderAndDropsBadLines(t *testing.T) {
	text := "{\"event\":\"A\"}\r\n{\"event\":\"B\"}\nnot json\n{\"event\":\"C\"}\n"

	events := journal.ParseFile(text)

	require.Len(t, events, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{events[0].Kind, events[1].Kind, events[2].Kind})
}

func TestIsJournalNameAndParseName(t *testing.T) {
	assert.True(t, journal.IsJournalName("Journal.2026-07-30T101500.01.log"))
	assert.False(t, journal.IsJournalName("Status.json"))

	parts, ok := journal.ParseName("Journal.2026-07-30T101500.02.log")
	require.True(t, ok)
	assert.Equal(t, 2, parts.Part)
	assert.Equal(t, 2026, parts.Date.Year())

	_, ok = journal.ParseName("NotAJournalFile.log")
	assert.False(t, ok)
}

func TestSortByDateOrdersNewestFirst(t *testing.T) {
	names := []string{
		"Journal.2026-07-28T090000.01.log",
		"Journal.2026-07-30T101500.02.log",
		"Journal.2026-07-30T101500.01.log",
		"Journal.2026-07-29T120000.01.log",
	}

	sorted := journal.SortByDate(names)

	assert.Equal(t, []string{
		"Journal.2026-07-30T101500.02.log",
		"Journal.2026-07-30T101500.01.log",
		"Journal.2026-07-29T120000.01.log",
		"Journal.2026-07-28T090000.01.log",
	}, sorted)
}
