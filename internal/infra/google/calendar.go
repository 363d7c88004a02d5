package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/calendar"
)

// CalendarProvider inserts events into the primary calendar of the user
// owning the access token.
type CalendarProvider struct {
	// extra options, appended after the token source
	opts []option.ClientOption
}

func NewCalendarProvider(opts ...option.ClientOption) *CalendarProvider {
	return &CalendarProvider{opts: opts}
}

func (p *CalendarProvider) Name() string { return calendar.ProviderGoogle }

func (p *CalendarProvider) CreateEvent(
	ctx context.Context,
	accessToken string,
	spec calendar.EventSpec,
) (string, error) {

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, p.opts...)

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("google calendar connection failed: %w", err)
	}

	created, err := svc.Events.Insert("primary", toEvent(spec)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create google calendar event: %w", err)
	}

	return created.Id, nil
}

func toEvent(spec calendar.EventSpec) *gcal.Event {
	loc, err := time.LoadLocation(spec.Timezone)
	if err != nil {
		loc = time.UTC
	}

	return &gcal.Event{
		Summary:     spec.Summary,
		Description: spec.Description,
		Start: &gcal.EventDateTime{
			DateTime: spec.Start.In(loc).Format(time.RFC3339),
			TimeZone: spec.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: spec.End.In(loc).Format(time.RFC3339),
			TimeZone: spec.Timezone,
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: int64(spec.ReminderMinutes)},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

var _ calendar.Provider = (*CalendarProvider)(nil)
