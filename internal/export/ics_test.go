package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	at := "09:30"
	entries := []upcoming.Entry{
		{ID: 1, Type: domain.EntryAppointment, Name: "Dentist", Date: &date, Time: &at, Notes: "bring card, insurance"},
		{ID: 2, Type: domain.EntryTodo, Name: "Bins", Date: &date, Done: true},
		{ID: 3, Type: domain.EntryTodo, Name: "Someday"},
	}

	var buf bytes.Buffer
	err = WriteICS(&buf, Calendar{Name: "Planner", Location: loc, Now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}, entries)
	require.NoError(t, err)
	body := buf.String()

	for _, field := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"X-WR-TIMEZONE:Europe/Berlin",
		"UID:appointment-1@household-planner",
		"DTSTART:20250115T083000Z\r\n",
		"DTEND:20250115T093000Z\r\n",
		`DESCRIPTION:bring card\, insurance`,
		"UID:todo-2@household-planner",
		"DTSTART;VALUE=DATE:20250115",
		"DTEND;VALUE=DATE:20250116",
		"STATUS:CANCELLED",
		"DTSTAMP:20250101T080000Z",
		"END:VCALENDAR",
	} {
		assert.Contains(t, body, field)
	}

	assert.NotContains(t, body, "TZID=")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"), "undated entries are skipped")
	assert.True(t, strings.HasSuffix(body, "END:VCALENDAR\r\n"))
}

func TestWriteICSSummerTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	at := "00:30"
	var buf bytes.Buffer
	err = WriteICS(&buf, Calendar{Name: "Planner", Location: loc}, []upcoming.Entry{
		{ID: 1, Type: domain.EntryAppointment, Name: "Night train", Date: &date, Time: &at},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "DTSTART:20250630T223000Z\r\n")
	assert.Contains(t, buf.String(), "DTEND:20250630T233000Z\r\n")
}

func TestWriteICSFoldsLongLines(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	name := strings.Repeat("Grüße an die Nachbarn ", 8)
	var buf bytes.Buffer
	err := WriteICS(&buf, Calendar{Name: "Planner"}, []upcoming.Entry{
		{ID: 1, Type: domain.EntryTodo, Name: name, Date: &date},
	})
	require.NoError(t, err)
	body := buf.String()

	require.True(t, strings.HasSuffix(body, "\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
		assert.True(t, utf8.ValidString(line), line)
	}

	unfolded := strings.ReplaceAll(body, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:"+name+"\r\n")
}

func TestFold(t *testing.T) {
	short := strings.Repeat("a", 75)
	assert.Equal(t, short+"\r\n", fold(short))

	long := strings.Repeat("a", 75+74+10)
	want := strings.Repeat("a", 75) + "\r\n " + strings.Repeat("a", 74) + "\r\n " + strings.Repeat("a", 10) + "\r\n"
	assert.Equal(t, want, fold(long))

	// "é" is two octets and must not be split at the 75 octet boundary.
	accented := strings.Repeat("a", 74) + "é"
	assert.Equal(t, strings.Repeat("a", 74)+"\r\n é\r\n", fold(accented))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteICSReportsWriteError(t *testing.T) {
	err := WriteICS(failingWriter{}, Calendar{Name: "x"}, nil)
	assert.EqualError(t, err, "disk full")
}
