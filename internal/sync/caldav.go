package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	applog "ecal/internal/log"
)

// Account holds connection parameters for a CalDAV server. No local
// validation of the URL or credentials is performed; the network layer
// decides what it accepts.
type Account struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// EventData is a normalized candidate extracted from a CalDAV calendar
// object, ready for reconciliation against the store.
type EventData struct {
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	AllDay      bool
	ExternalID  string
}

// FetchFunc retrieves all events visible to the account's principal.
type FetchFunc func(ctx context.Context, acct Account) ([]EventData, error)

// FetchEvents connects to a CalDAV server, enumerates every calendar
// collection visible to the authenticated principal and extracts one
// normalized event per calendar object.
//
// Discovery failures (unreachable server, bad credentials) abort the
// fetch. A calendar whose query fails, or an object that cannot be
// normalized, is skipped and the fetch continues.
func FetchEvents(ctx context.Context, acct Account) ([]EventData, error) {
	httpClient := webdav.HTTPClientWithBasicAuth(nil, acct.Username, acct.Password)
	client, err := caldav.NewClient(httpClient, acct.URL)
	if err != nil {
		return nil, fmt.Errorf("caldav client: %w", err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("caldav principal lookup: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("caldav home set lookup: %w", err)
	}
	calendars, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("caldav calendar listing: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			Comps:    []caldav.CalendarCompRequest{{Name: ical.CompEvent, AllProps: true}},
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{{Name: ical.CompEvent}},
		},
	}

	out := make([]EventData, 0)
	for _, cal := range calendars {
		objects, err := client.QueryCalendar(ctx, cal.Path, query)
		if err != nil {
			applog.Error("caldav calendar query failed, skipping calendar", err, "path", cal.Path)
			continue
		}
		for _, obj := range objects {
			ev, err := normalizeObject(obj.Data)
			if err != nil {
				// Malformed objects are skipped, not reported.
				applog.Debug("caldav object skipped", "path", obj.Path, "reason", err)
				continue
			}
			out = append(out, ev)
		}
	}

	applog.Info("caldav fetch completed", "calendars", len(calendars), "events", len(out))
	return out, nil
}

// normalizeObject extracts the first VEVENT of a calendar object and
// maps it onto the service's event shape. Other component types
// (to-dos, journals) are ignored.
func normalizeObject(cal *ical.Calendar) (EventData, error) {
	if cal == nil {
		return EventData{}, errors.New("empty calendar object")
	}

	var comp *ical.Component
	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			comp = child
			break
		}
	}
	if comp == nil {
		return EventData{}, errors.New("no VEVENT component")
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	endProp := comp.Props.Get(ical.PropDateTimeEnd)
	if startProp == nil || endProp == nil {
		return EventData{}, errors.New("missing DTSTART or DTEND")
	}

	// Date-only values parse as midnight.
	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return EventData{}, fmt.Errorf("parse DTSTART: %w", err)
	}
	end, err := endProp.DateTime(time.UTC)
	if err != nil {
		return EventData{}, fmt.Errorf("parse DTEND: %w", err)
	}

	ev := EventData{
		Title:      propText(comp, ical.PropSummary),
		Start:      start,
		End:        end,
		AllDay:     isDateOnly(startProp),
		ExternalID: propText(comp, ical.PropUID),
	}
	if desc := propText(comp, ical.PropDescription); desc != "" {
		ev.Description = &desc
	}
	return ev, nil
}

func propText(comp *ical.Component, name string) string {
	s, err := comp.Props.Text(name)
	if err != nil {
		return ""
	}
	return s
}

// isDateOnly reports whether a DTSTART carries no time-of-day
// component, either declared via VALUE=DATE or in bare YYYYMMDD form.
func isDateOnly(prop *ical.Prop) bool {
	if prop.ValueType() == ical.ValueDate {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}
