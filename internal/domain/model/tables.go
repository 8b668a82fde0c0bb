// Package model contains the raw-table rows and the derived feature vector
// passed between layers.
package model

import "time"

// DateLayout is the wire format for all date columns.
const DateLayout = "2006-01-02"

// User is one row of the users table. Immutable after creation.
type User struct {
	UserID     string    // unique key
	SignupDate time.Time
	Plan       string // categorical: trial, basic, pro
	Country    string // categorical
}

// Event is one row of the append-only activity log. Many rows per user.
type Event struct {
	UserID            string
	EventDate         time.Time
	Sessions          int
	AvgSessionMinutes float64
}

// SupportTicket is one row of the support table. Possibly zero per user.
type SupportTicket struct {
	UserID     string
	TicketDate time.Time
	Severity   string // categorical: low, medium, high
}

// Label is the optional ground-truth churn outcome. At most one per user.
type Label struct {
	UserID     string
	ChurnLabel int // 1 = churned
}

// FeatureVector is the fixed-schema derived record per user consumed by
// training and scoring. LastActivity stays the zero time for users with no
// events; DaysSinceLastLogin is then the NeverActive sentinel.
type FeatureVector struct {
	UserID               string
	SignupDate           time.Time
	Plan                 string
	Country              string
	Sessions30d          float64
	AvgSessionMinutes30d float64
	Tickets30d           float64
	LastActivity         time.Time
	ChurnLabel           int
	DaysSinceLastLogin   float64
	AccountAgeDays       float64
}

// NeverActive is the sentinel for a date difference that cannot be computed,
// e.g. days-since-last-login for a user with no recorded activity.
const NeverActive = -1

// Feature field names, in schema order. These five are required by both the
// trainer and the scorers.
const (
	FieldSessions30d          = "sessions_30d"
	FieldAvgSessionMinutes30d = "avg_session_minutes_30d"
	FieldTickets30d           = "tickets_30d"
	FieldDaysSinceLastLogin   = "days_since_last_login"
	FieldAccountAgeDays       = "account_age_days"
)

// FeatureColumns lists the model input columns in schema order.
func FeatureColumns() []string {
	return []string{
		FieldSessions30d,
		FieldAvgSessionMinutes30d,
		FieldTickets30d,
		FieldDaysSinceLastLogin,
		FieldAccountAgeDays,
	}
}

// Features returns the model inputs of v in schema order.
func (v FeatureVector) Features() []float64 {
	return []float64{
		v.Sessions30d,
		v.AvgSessionMinutes30d,
		v.Tickets30d,
		v.DaysSinceLastLogin,
		v.AccountAgeDays,
	}
}

// TableColumns is the persisted feature-table header, order-stable.
func TableColumns() []string {
	return []string{
		"user_id",
		"signup_date",
		"plan",
		"country",
		"sessions_30d",
		"avg_session_minutes_30d",
		"tickets_30d",
		"last_activity",
		"churn_label",
		"days_since_last_login",
		"account_age_days",
	}
}
