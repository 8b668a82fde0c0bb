package repository

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/retainiq/churn/internal/domain/model"
)

// LoadUsers reads the users table.
func LoadUsers(path string) ([]model.User, error) {
	tbl, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndexes(path, tbl.Columns, []string{"user_id", "signup_date", "plan", "country"})
	if err != nil {
		return nil, err
	}

	out := make([]model.User, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		signup, err := parseDate(path, i, row[cols["signup_date"]])
		if err != nil {
			return nil, err
		}
		out = append(out, model.User{
			UserID:     row[cols["user_id"]],
			SignupDate: signup,
			Plan:       row[cols["plan"]],
			Country:    row[cols["country"]],
		})
	}
	return out, nil
}

// LoadEvents reads the activity log.
func LoadEvents(path string) ([]model.Event, error) {
	tbl, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndexes(path, tbl.Columns, []string{"user_id", "event_date", "sessions", "avg_session_minutes"})
	if err != nil {
		return nil, err
	}

	out := make([]model.Event, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		date, err := parseDate(path, i, row[cols["event_date"]])
		if err != nil {
			return nil, err
		}
		sessions, err := strconv.Atoi(row[cols["sessions"]])
		if err != nil {
			return nil, rowErr(path, i, "sessions", err)
		}
		minutes, err := strconv.ParseFloat(row[cols["avg_session_minutes"]], 64)
		if err != nil {
			return nil, rowErr(path, i, "avg_session_minutes", err)
		}
		out = append(out, model.Event{
			UserID:            row[cols["user_id"]],
			EventDate:         date,
			Sessions:          sessions,
			AvgSessionMinutes: minutes,
		})
	}
	return out, nil
}

// LoadSupport reads the support tickets table.
func LoadSupport(path string) ([]model.SupportTicket, error) {
	tbl, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndexes(path, tbl.Columns, []string{"user_id", "ticket_date", "severity"})
	if err != nil {
		return nil, err
	}

	out := make([]model.SupportTicket, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		date, err := parseDate(path, i, row[cols["ticket_date"]])
		if err != nil {
			return nil, err
		}
		out = append(out, model.SupportTicket{
			UserID:     row[cols["user_id"]],
			TicketDate: date,
			Severity:   row[cols["severity"]],
		})
	}
	return out, nil
}

// LoadLabels reads the churn labels. The label source is optional: a missing
// file is an empty source, not an error.
func LoadLabels(path string) ([]model.Label, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	tbl, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndexes(path, tbl.Columns, []string{"user_id", "churn_label"})
	if err != nil {
		return nil, err
	}

	out := make([]model.Label, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		label, err := strconv.Atoi(row[cols["churn_label"]])
		if err != nil {
			return nil, rowErr(path, i, "churn_label", err)
		}
		out = append(out, model.Label{UserID: row[cols["user_id"]], ChurnLabel: label})
	}
	return out, nil
}

// WriteFeatureTable persists the feature vectors with the fixed column
// order, fully replacing any previous table.
func WriteFeatureTable(path string, rows []model.FeatureVector) error {
	tbl := &model.Table{Columns: model.TableColumns(), Rows: make([][]string, 0, len(rows))}
	for _, v := range rows {
		tbl.Rows = append(tbl.Rows, []string{
			v.UserID,
			v.SignupDate.Format(model.DateLayout),
			v.Plan,
			v.Country,
			model.FormatFloat(v.Sessions30d),
			model.FormatFloat(v.AvgSessionMinutes30d),
			model.FormatFloat(v.Tickets30d),
			formatLastActivity(v.LastActivity),
			strconv.Itoa(v.ChurnLabel),
			model.FormatFloat(v.DaysSinceLastLogin),
			model.FormatFloat(v.AccountAgeDays),
		})
	}
	return WriteTable(path, tbl)
}

// formatLastActivity renders the unjoined-cell sentinel as a literal 0, the
// historical fill value for users with no activity.
func formatLastActivity(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return t.Format(model.DateLayout)
}

func parseDate(path string, row int, cell string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, cell)
	if err != nil {
		return time.Time{}, rowErr(path, row, "date", err)
	}
	return t, nil
}

func rowErr(path string, row int, field string, err error) error {
	// +2: header line plus 1-based numbering.
	return fmt.Errorf("%w: %s: row %d: %s: %w", ErrBadRow, path, row+2, field, err)
}
