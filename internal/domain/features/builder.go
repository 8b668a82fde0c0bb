// Package features builds the fixed-schema feature table from the raw
// activity tables.
//
// All window and age computations are anchored to a single global reference
// date: the maximum event_date across the entire event log, never per-user
// and never wall-clock now. Users with no qualifying rows in the window get
// zero-valued aggregates; users with no events at all get the NeverActive
// sentinel for days_since_last_login.
package features

import (
	"context"
	"fmt"
	"time"

	"github.com/retainiq/churn/internal/domain/model"
)

const (
	defaultWindowDays = 30
	hoursPerDay       = 24
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithWindowDays sets the aggregation window length in days.
func WithWindowDays(days int) Option {
	return func(b *Builder) {
		if days > 0 {
			b.windowDays = days
		}
	}
}

// Input bundles the raw tables consumed by a build. Labels may be nil; a
// missing label source is not an error and yields churn_label = 0.
type Input struct {
	Users   []model.User
	Events  []model.Event
	Tickets []model.SupportTicket
	Labels  []model.Label
}

// Builder derives one feature vector per user from the raw tables.
type Builder struct {
	windowDays int
}

// New creates a Builder with configuration options.
func New(opts ...Option) *Builder {
	b := &Builder{windowDays: defaultWindowDays}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// userAgg accumulates the windowed aggregates for a single user.
type userAgg struct {
	sessions     float64
	minutesSum   float64
	minutesCount int
	tickets      float64
	lastActivity time.Time
}

// Build produces one feature vector per user, in users-table order. It is a
// pure function of its input: re-running it on unchanged tables yields an
// identical result.
func (b *Builder) Build(ctx context.Context, in Input) ([]model.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build canceled: %w", err)
	}
	if len(in.Events) == 0 {
		return nil, ErrNoEvents
	}

	refDate := referenceDate(in.Events)
	cutoff := refDate.AddDate(0, 0, -b.windowDays)

	aggs := make(map[string]*userAgg, len(in.Users))
	agg := func(userID string) *userAgg {
		a, ok := aggs[userID]
		if !ok {
			a = &userAgg{}
			aggs[userID] = a
		}
		return a
	}

	for _, e := range in.Events {
		a := agg(e.UserID)
		// Window membership uses an inclusive lower bound.
		if !e.EventDate.Before(cutoff) {
			a.sessions += float64(e.Sessions)
			a.minutesSum += e.AvgSessionMinutes
			a.minutesCount++
		}
		// Last activity looks at the entire history, not the window.
		if e.EventDate.After(a.lastActivity) {
			a.lastActivity = e.EventDate
		}
	}

	for _, t := range in.Tickets {
		if !t.TicketDate.Before(cutoff) {
			agg(t.UserID).tickets++
		}
	}

	labels := make(map[string]int, len(in.Labels))
	for _, l := range in.Labels {
		labels[l.UserID] = l.ChurnLabel
	}

	out := make([]model.FeatureVector, 0, len(in.Users))
	seen := make(map[string]struct{}, len(in.Users))
	for _, u := range in.Users {
		if _, dup := seen[u.UserID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, u.UserID)
		}
		seen[u.UserID] = struct{}{}

		v := model.FeatureVector{
			UserID:     u.UserID,
			SignupDate: u.SignupDate,
			Plan:       u.Plan,
			Country:    u.Country,
			ChurnLabel: labels[u.UserID],
		}

		if a, ok := aggs[u.UserID]; ok {
			v.Sessions30d = a.sessions
			if a.minutesCount > 0 {
				// Mean of daily means, not a true per-session mean.
				v.AvgSessionMinutes30d = a.minutesSum / float64(a.minutesCount)
			}
			v.Tickets30d = a.tickets
			v.LastActivity = a.lastActivity
		}

		v.DaysSinceLastLogin = wholeDaysSince(refDate, v.LastActivity)
		v.AccountAgeDays = wholeDaysSince(refDate, v.SignupDate)

		out = append(out, v)
	}

	return out, nil
}

// ReferenceDate returns the global anchor for window computations: the
// maximum event_date across the entire event log.
func (b *Builder) ReferenceDate(events []model.Event) (time.Time, error) {
	if len(events) == 0 {
		return time.Time{}, ErrNoEvents
	}
	return referenceDate(events), nil
}

func referenceDate(events []model.Event) time.Time {
	max := events[0].EventDate
	for _, e := range events[1:] {
		if e.EventDate.After(max) {
			max = e.EventDate
		}
	}
	return max
}

// wholeDaysSince returns ref−d in whole days, or the NeverActive sentinel
// when d is unset and the difference cannot be computed.
func wholeDaysSince(ref, d time.Time) float64 {
	if d.IsZero() {
		return model.NeverActive
	}
	return float64(int(ref.Sub(d).Hours() / hoursPerDay))
}
