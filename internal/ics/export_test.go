package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecal/internal/model"
)

func TestExportBasicFeed(t *testing.T) {
	events := []model.Event{
		{
			ID:          1,
			Title:       "Dentist",
			Description: strPtr("Bring the forms"),
			Start:       time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			End:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			ExternalID:  strPtr("abc123"),
			UpdatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	out := Export(events)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "UID:abc123")
	assert.Contains(t, out, "SUMMARY:Dentist")
	assert.Contains(t, out, "DESCRIPTION:Bring the forms")
	assert.Contains(t, out, "DTSTART:20250602T090000Z")
	assert.Contains(t, out, "DTEND:20250602T100000Z")
}

func TestExportGeneratesUIDForLocalEvents(t *testing.T) {
	events := []model.Event{{
		ID:    1,
		Title: "Local",
		Start: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}}

	out := Export(events)

	// Scan line by line regardless of the serializer's line endings.
	var uid string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "UID:") {
			uid = strings.TrimPrefix(line, "UID:")
		}
	}
	assert.NotEmpty(t, uid)
}

func TestExportAllDayEvent(t *testing.T) {
	events := []model.Event{{
		ID:     1,
		Title:  "Bank holiday",
		Start:  time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}}

	out := Export(events)

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250603")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250604")
}

func TestExportRecurrence(t *testing.T) {
	events := []model.Event{{
		ID:         1,
		Title:      "Standup",
		Start:      time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		Recurrence: strPtr("RRULE:FREQ=WEEKLY"),
	}}

	out := Export(events)

	// The stored prefix is stripped before serialization re-adds it.
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY")
	assert.NotContains(t, out, "RRULE:RRULE:")
}

func TestExportEmpty(t *testing.T) {
	out := Export(nil)
	require.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
