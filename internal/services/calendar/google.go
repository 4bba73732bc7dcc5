// Package calendar implements the Google Calendar gateway: OAuth web flow,
// token persistence, and event CRUD with Meet link provisioning.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/scheduler"
	"github.com/ymatsui/aical/internal/timeutil"
)

const (
	// DefaultCalendarID targets the authenticated user's primary calendar.
	DefaultCalendarID = "primary"
	// calendarTimeZone is the timezone attached to event payloads.
	calendarTimeZone = "Asia/Tokyo"
	// eventTimeLayout is the zone-less datetime format sent alongside the
	// TimeZone field on event writes.
	eventTimeLayout = "2006-01-02T15:04:05"
	// maxListResults caps a single conflict-window fetch.
	maxListResults = 50
)

// ErrNotAuthenticated is returned by calendar operations before the OAuth
// flow has completed.
var ErrNotAuthenticated = errors.New("not authenticated with google calendar")

// ErrRedirectURINotConfigured is returned when the OAuth flow is started
// without a redirect URI.
var ErrRedirectURINotConfigured = errors.New("redirect URI not configured")

// Config carries the Google OAuth client and token settings. The base64
// variants take precedence over their file counterparts so the service can
// run on hosts without a persistent filesystem.
type Config struct {
	CredentialsFile    string
	CredentialsJSONB64 string
	TokenFile          string
	TokenJSONB64       string
	RedirectURI        string
	CalendarID         string
}

// Gateway is the Google Calendar implementation of scheduler.CalendarGateway.
type Gateway struct {
	oauth      *oauth2.Config
	store      *TokenStore
	calendarID string
	logger     *zap.Logger

	mu    sync.Mutex
	svc   *gcal.Service
	token *oauth2.Token
}

// NewGateway builds the gateway from client credentials and, when a stored
// token exists, brings the Calendar service up immediately. Starting without
// a token is not an error; operations fail with ErrNotAuthenticated until
// the OAuth callback completes.
func NewGateway(ctx context.Context, cfg Config, logger *zap.Logger) (*Gateway, error) {
	clientJSON, err := loadClientCredentials(cfg)
	if err != nil {
		return nil, err
	}

	oauthCfg, err := google.ConfigFromJSON(clientJSON, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google client credentials: %w", err)
	}
	if cfg.RedirectURI != "" {
		oauthCfg.RedirectURL = cfg.RedirectURI
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	g := &Gateway{
		oauth:      oauthCfg,
		store:      NewTokenStore(cfg.TokenFile),
		calendarID: calendarID,
		logger:     logger,
	}

	token, err := DecodeBase64Token(cfg.TokenJSONB64)
	if err != nil {
		logger.Warn("ignoring_invalid_token_env", zap.Error(err))
	}
	if token == nil {
		token = g.store.Load()
	}
	if token != nil {
		if err := g.adoptToken(ctx, token); err != nil {
			logger.Warn("stored_token_unusable", zap.Error(err))
		}
	}

	return g, nil
}

func loadClientCredentials(cfg Config) ([]byte, error) {
	if cfg.CredentialsJSONB64 != "" {
		raw, err := DecodeBase64Value(cfg.CredentialsJSONB64)
		if err != nil {
			return nil, fmt.Errorf("invalid GOOGLE_CREDENTIALS_JSON_B64: %w", err)
		}
		return raw, nil
	}
	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return raw, nil
	}
	return nil, errors.New("google OAuth client credentials not found; set GOOGLE_CREDENTIALS_JSON_B64 or GOOGLE_CREDENTIALS_FILE")
}

// adoptToken installs a token and builds the Calendar service over a
// refreshing token source.
func (g *Gateway) adoptToken(ctx context.Context, token *oauth2.Token) error {
	source := g.oauth.TokenSource(ctx, token)
	svc, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	g.mu.Lock()
	g.token = token
	g.svc = svc
	g.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether the gateway holds a usable service.
func (g *Gateway) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.svc != nil
}

// AuthURL returns the Google consent URL for the configured redirect URI.
// Offline access with forced consent guarantees a refresh token.
func (g *Gateway) AuthURL() (string, error) {
	if g.oauth.RedirectURL == "" {
		return "", ErrRedirectURINotConfigured
	}
	return g.oauth.AuthCodeURL(
		uuid.NewString(),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// HandleCallback exchanges the authorization code, persists the token, and
// brings the Calendar service up.
func (g *Gateway) HandleCallback(ctx context.Context, code string) error {
	if g.oauth.RedirectURL == "" {
		return ErrRedirectURINotConfigured
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := g.adoptToken(ctx, token); err != nil {
		return err
	}
	if err := g.store.Save(token); err != nil {
		// Persistence is best effort; the in-memory token keeps working.
		g.logger.Warn("failed_to_persist_token", zap.Error(err))
	}
	return nil
}

// TokenB64 returns the current token as base64 JSON, for operators running
// on hosts where the token file does not survive restarts.
func (g *Gateway) TokenB64() (string, error) {
	g.mu.Lock()
	token := g.token
	g.mu.Unlock()
	if token == nil {
		return "", ErrNotAuthenticated
	}
	return EncodeTokenBase64(token)
}

func (g *Gateway) service() (*gcal.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.svc == nil {
		return nil, ErrNotAuthenticated
	}
	return g.svc, nil
}

// ListEvents fetches single (non-recurring-expanded) timed events between
// two UTC instants, ordered by start time. All-day events are skipped; they
// carry no concrete instant to conflict with.
func (g *Gateway) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.Event, error) {
	svc, err := g.service()
	if err != nil {
		return nil, err
	}

	result, err := svc.Events.List(g.calendarID).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxListResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]models.Event, 0, len(result.Items))
	for _, item := range result.Items {
		event, ok := toEvent(item)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// CreateEvent books an event in JST wall-clock time, optionally requesting a
// Meet conference. Invitation emails go out only when there are attendees.
func (g *Gateway) CreateEvent(ctx context.Context, input scheduler.CreateEventInput) (*models.Event, error) {
	svc, err := g.service()
	if err != nil {
		return nil, err
	}

	start := input.StartTime.In(timeutil.JST)
	end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)

	event := &gcal.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(eventTimeLayout),
			TimeZone: calendarTimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(eventTimeLayout),
			TimeZone: calendarTimeZone,
		},
	}
	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	conferenceVersion := int64(0)
	if input.AddMeetLink {
		conferenceVersion = 1
		event.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             "meet-" + uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	sendUpdates := "none"
	if len(input.Attendees) > 0 {
		sendUpdates = "all"
	}

	created, err := svc.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(conferenceVersion).
		SendUpdates(sendUpdates).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	out, _ := toEvent(created)
	return &out, nil
}

// GetEvent fetches a single event by id.
func (g *Gateway) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	svc, err := g.service()
	if err != nil {
		return nil, err
	}

	item, err := svc.Events.Get(g.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	out, _ := toEvent(item)
	return &out, nil
}

// UpdateEvent applies a partial update. Moving the start without a new
// duration preserves the event's existing length; changing only the duration
// recomputes the end from the existing start.
func (g *Gateway) UpdateEvent(ctx context.Context, eventID string, update models.MeetingUpdate) (*models.Event, error) {
	svc, err := g.service()
	if err != nil {
		return nil, err
	}

	event, err := svc.Events.Get(g.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if update.Summary != nil {
		event.Summary = *update.Summary
	}
	if update.Description != nil {
		event.Description = *update.Description
	}

	switch {
	case update.StartTime != nil:
		start := update.StartTime.In(timeutil.JST)
		var end time.Time
		if update.DurationMinutes != nil {
			end = start.Add(time.Duration(*update.DurationMinutes) * time.Minute)
		} else {
			duration, err := eventDuration(event)
			if err != nil {
				return nil, err
			}
			end = start.Add(duration)
		}
		event.Start = &gcal.EventDateTime{DateTime: start.Format(eventTimeLayout), TimeZone: calendarTimeZone}
		event.End = &gcal.EventDateTime{DateTime: end.Format(eventTimeLayout), TimeZone: calendarTimeZone}

	case update.DurationMinutes != nil:
		start, err := parseEventTime(event.Start)
		if err != nil {
			return nil, err
		}
		end := start.In(timeutil.JST).Add(time.Duration(*update.DurationMinutes) * time.Minute)
		event.End = &gcal.EventDateTime{DateTime: end.Format(eventTimeLayout), TimeZone: calendarTimeZone}
	}

	updated, err := svc.Events.Update(g.calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	out, _ := toEvent(updated)
	return &out, nil
}

// DeleteEvent removes an event by id.
func (g *Gateway) DeleteEvent(ctx context.Context, eventID string) error {
	svc, err := g.service()
	if err != nil {
		return err
	}

	if err := svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func eventDuration(event *gcal.Event) (time.Duration, error) {
	start, err := parseEventTime(event.Start)
	if err != nil {
		return 0, err
	}
	end, err := parseEventTime(event.End)
	if err != nil {
		return 0, err
	}
	return end.Sub(start), nil
}

func parseEventTime(edt *gcal.EventDateTime) (time.Time, error) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, errors.New("event has no concrete time")
	}
	t, err := time.Parse(time.RFC3339, edt.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse event time: %w", err)
	}
	return t, nil
}

// toEvent converts an API event to the domain shape with UTC instants.
// Returns ok=false for all-day events, which have no dateTime.
func toEvent(item *gcal.Event) (models.Event, bool) {
	event := models.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Status:      item.Status,
		MeetLink:    item.HangoutLink,
	}

	if item.Organizer != nil {
		event.Organizer = item.Organizer.Email
	}
	if item.Creator != nil {
		event.Creator = item.Creator.Email
	}
	for _, attendee := range item.Attendees {
		if attendee != nil && attendee.Email != "" {
			event.Attendees = append(event.Attendees, attendee.Email)
		}
	}

	if event.MeetLink == "" && item.ConferenceData != nil {
		for _, entry := range item.ConferenceData.EntryPoints {
			if entry != nil && entry.EntryPointType == "video" {
				event.MeetLink = entry.Uri
				break
			}
		}
	}

	start, err := parseEventTime(item.Start)
	if err != nil {
		return event, false
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return event, false
	}
	event.Start = start.UTC()
	event.End = end.UTC()
	return event, true
}
