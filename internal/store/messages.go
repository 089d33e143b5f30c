package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Message is a stored contact form submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	HashedIP  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Forwarded bool      `json:"forwarded"`
	Error     string    `json:"error,omitempty"`
}

func (s *Store) SaveMessage(ctx context.Context, m Message) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (name, email, subject, body, hashed_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Subject, m.Body, m.HashedIP, m.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("save message: %w", err)
	}
	return res.LastInsertId()
}

// MarkForwarded records the outcome of forwarding message id. A nil
// forwardErr marks it delivered.
func (s *Store) MarkForwarded(ctx context.Context, id int64, forwardErr error) error {
	var (
		forwarded = 1
		msg       sql.NullString
	)
	if forwardErr != nil {
		forwarded = 0
		msg = sql.NullString{String: forwardErr.Error(), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET forwarded = ?, error = ? WHERE id = ?`, forwarded, msg, id)
	if err != nil {
		return fmt.Errorf("mark message %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark message %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, body, COALESCE(hashed_ip, ''), created_at, forwarded, COALESCE(error, '')
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.HashedIP, &m.CreatedAt, &m.Forwarded, &m.Error); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete message %d: %w", id, ErrNotFound)
	}
	return nil
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors       int64     `json:"total_visitors"`
	UniqueVisitors      int64     `json:"unique_visitors"`
	VisitorsToday       int64     `json:"visitors_today"`
	VisitorsThisWeek    int64     `json:"visitors_this_week"`
	TotalMessages       int64     `json:"total_messages"`
	UnforwardedMessages int64     `json:"unforwarded_messages"`
	RecentVisitors      []Visitor `json:"recent_visitors"`
	RecentMessages      []Message `json:"recent_messages"`
}

// Stats summarises the database as seen at now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	st := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&st.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&st.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&st.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&st.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo}},
		{&st.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
		{&st.UnforwardedMessages, `SELECT COUNT(*) FROM messages WHERE forwarded = 0`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if st.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if st.RecentMessages, err = s.Messages(ctx, 10); err != nil {
		return nil, err
	}
	return st, nil
}
