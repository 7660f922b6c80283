package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecal/internal/model"
)

// newTestStore opens an in-memory SQLite store.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:", false)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string        { return &s }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func TestCreateAndGetEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := &model.Event{
		Title: "Dentist",
		Start: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateEvent(ctx, event))
	require.NotZero(t, event.ID)

	got, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got.Title)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetEventNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEvent(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEventsRangeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mk := func(title string, start, end time.Time) {
		require.NoError(t, s.CreateEvent(ctx, &model.Event{Title: title, Start: start, End: end}))
	}

	day := func(d, h int) time.Time {
		return time.Date(2025, 6, d, h, 0, 0, 0, time.UTC)
	}

	mk("before", day(1, 9), day(1, 10))
	mk("overlaps-start", day(4, 23), day(5, 1))
	mk("inside", day(6, 9), day(6, 10))
	mk("overlaps-end", day(9, 23), day(10, 1))
	mk("after", day(12, 9), day(12, 10))

	events, err := s.ListEvents(ctx, EventFilter{
		Start: timePtr(day(5, 0)),
		End:   timePtr(day(10, 0)),
	})
	require.NoError(t, err)

	titles := make([]string, 0, len(events))
	for _, ev := range events {
		titles = append(titles, ev.Title)
	}
	// Overlap filter: end >= window start AND start <= window end,
	// ordered by start.
	assert.Equal(t, []string{"overlaps-start", "inside", "overlaps-end"}, titles)
}

func TestListEventsNoFilterReturnsAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		start := time.Date(2025, 6, 10-i, 9, 0, 0, 0, time.UTC)
		require.NoError(t, s.CreateEvent(ctx, &model.Event{
			Title: "e",
			Start: start,
			End:   start.Add(time.Hour),
		}))
	}

	events, err := s.ListEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].Start.Before(events[1].Start))
	assert.True(t, events[1].Start.Before(events[2].Start))
}

func TestUpdateEventPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := &model.Event{
		Title:       "Original",
		Description: strPtr("keep me"),
		Start:       time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateEvent(ctx, event))

	updated, err := s.UpdateEvent(ctx, event.ID, EventUpdate{Title: strPtr("Renamed")})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	// Fields not present in the update are untouched.
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	assert.True(t, updated.Start.Equal(event.Start))
}

func TestUpdateEventNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateEvent(context.Background(), 999, EventUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := &model.Event{
		Title: "Gone",
		Start: time.Now().UTC(),
		End:   time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, s.CreateEvent(ctx, event))
	require.NoError(t, s.DeleteEvent(ctx, event.ID))

	_, err := s.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteEvent(ctx, event.ID), ErrNotFound)
}

func TestFindEventBySource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindEventBySource(ctx, "abc123", model.SourceCalDAV)
	assert.ErrorIs(t, err, ErrNotFound)

	event := &model.Event{
		Title:      "Imported",
		Start:      time.Now().UTC(),
		End:        time.Now().UTC().Add(time.Hour),
		ExternalID: strPtr("abc123"),
		Source:     strPtr(model.SourceCalDAV),
	}
	require.NoError(t, s.CreateEvent(ctx, event))

	got, err := s.FindEventBySource(ctx, "abc123", model.SourceCalDAV)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	// Same external id under another source does not match.
	_, err = s.FindEventBySource(ctx, "abc123", "ics")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := &model.Category{Name: "Work"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	assert.Equal(t, "#6366f1", cat.Color)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
}

func TestListCategoriesOrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Work", "Errands", "Family"} {
		require.NoError(t, s.CreateCategory(ctx, &model.Category{Name: name}))
	}

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Errands", cats[0].Name)
	assert.Equal(t, "Family", cats[1].Name)
	assert.Equal(t, "Work", cats[2].Name)
}

func TestCalendarSyncLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cs := &model.CalendarSync{
		Name:    "iCloud",
		Source:  model.SourceCalDAV,
		URL:     strPtr("https://caldav.example.com"),
		Enabled: true,
	}
	require.NoError(t, s.CreateCalendarSync(ctx, cs))

	enabled, err := s.ListEnabledCalendarSyncs(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)

	_, err = s.UpdateCalendarSync(ctx, cs.ID, CalendarSyncUpdate{Enabled: boolPtr(false)})
	require.NoError(t, err)

	enabled, err = s.ListEnabledCalendarSyncs(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	at := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchCalendarSync(ctx, cs.ID, at))

	got, err := s.GetCalendarSync(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSync)
	assert.WithinDuration(t, at, *got.LastSync, time.Second)

	require.NoError(t, s.DeleteCalendarSync(ctx, cs.ID))
	_, err = s.GetCalendarSync(ctx, cs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
