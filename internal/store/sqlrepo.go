package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alareon123/spina-bot/internal/domain"
)

// SQLRepo implements Repo over database/sql for both SQLite and PostgreSQL.
// Queries are written with '?' placeholders and rebound per dialect.
type SQLRepo struct {
	db *sql.DB
	d  dialect
}

var _ Repo = (*SQLRepo)(nil)

// Close releases the underlying database resources.
func (r *SQLRepo) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable.
func (r *SQLRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepo) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.d.rebind(q), args...)
}

func (r *SQLRepo) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.d.rebind(q), args...)
}

func (r *SQLRepo) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.d.rebind(q), args...)
}

// inTx runs fn inside a transaction and commits when fn returns nil.
func (r *SQLRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Users ---

const userColumns = `telegram_id, username, first_name, last_name, is_active,
	created_at, last_pain_rating, last_rating_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		u          domain.User
		username   sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
		createdAt  int64
		lastRating sql.NullInt64
		lastDate   sql.NullInt64
	)
	if err := s.Scan(
		&u.TelegramID, &username, &firstName, &lastName, &u.IsActive,
		&createdAt, &lastRating, &lastDate,
	); err != nil {
		return nil, err
	}
	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.CreatedAt = fromUnix(createdAt)
	u.LastPainRating = fromNullInt(lastRating)
	u.LastRatingDate = fromNullInt64(lastDate)
	return &u, nil
}

// RegisterUser inserts a user or refreshes the name fields and active flag of
// an existing one. The rating snapshot and creation time are left untouched.
func (r *SQLRepo) RegisterUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	_, err := r.exec(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			is_active  = excluded.is_active`,
		u.TelegramID, toNullString(u.Username), toNullString(u.FirstName), toNullString(u.LastName),
		u.IsActive, unix(u.CreatedAt),
	)
	return err
}

// GetUser returns a user by Telegram ID or domain.ErrNotFound.
func (r *SQLRepo) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	u, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// SetActive toggles the broadcast flag; false means the user does not exist.
func (r *SQLRepo) SetActive(ctx context.Context, telegramID int64, active bool) (bool, error) {
	res, err := r.exec(ctx, `UPDATE users SET is_active = ? WHERE telegram_id = ?`, active, telegramID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeactivateUsers clears the active flag for all given users in one commit.
func (r *SQLRepo) DeactivateUsers(ctx context.Context, telegramIDs []int64) error {
	if len(telegramIDs) == 0 {
		return nil
	}
	q := r.d.rebind(`UPDATE users SET is_active = ? WHERE telegram_id = ?`)
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, id := range telegramIDs {
			if _, err := stmt.ExecContext(ctx, false, id); err != nil {
				return fmt.Errorf("deactivate %d: %w", id, err)
			}
		}
		return nil
	})
}

func (r *SQLRepo) listUsers(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// ListActiveUsers returns every user eligible for the broadcast.
func (r *SQLRepo) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	return r.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE is_active = ? ORDER BY telegram_id`, true)
}

// ListUsers returns up to limit users, newest first.
func (r *SQLRepo) ListUsers(ctx context.Context, limit int) ([]domain.User, error) {
	return r.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, telegram_id DESC LIMIT ?`, limit)
}

// CountUsers returns total and active user counts.
func (r *SQLRepo) CountUsers(ctx context.Context) (total, active int, err error) {
	err = r.queryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0)
		FROM users`, true).Scan(&total, &active)
	return total, active, err
}

// --- Responses ---

// RecordResponse appends a response row and updates the user's last rating
// snapshot in one transaction. Unknown users are created active.
func (r *SQLRepo) RecordResponse(ctx context.Context, telegramID int64, rating int, at time.Time) error {
	ts := unix(at)
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.d.rebind(`
			INSERT INTO user_responses (user_id, pain_rating, response_date)
			VALUES (?, ?, ?)`),
			telegramID, rating, ts,
		); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
		if _, err := tx.ExecContext(ctx, r.d.rebind(`
			INSERT INTO users (telegram_id, is_active, created_at, last_pain_rating, last_rating_date)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (telegram_id) DO UPDATE SET
				last_pain_rating = excluded.last_pain_rating,
				last_rating_date = excluded.last_rating_date`),
			telegramID, true, ts, rating, ts,
		); err != nil {
			return fmt.Errorf("update user snapshot: %w", err)
		}
		return nil
	})
}

// ListResponses returns a user's responses, oldest first.
func (r *SQLRepo) ListResponses(ctx context.Context, telegramID int64) ([]domain.Response, error) {
	rows, err := r.query(ctx, `
		SELECT id, user_id, pain_rating, response_date
		FROM user_responses
		WHERE user_id = ?
		ORDER BY response_date ASC, id ASC`,
		telegramID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Response
	for rows.Next() {
		var (
			resp domain.Response
			at   int64
		)
		if err := rows.Scan(&resp.ID, &resp.UserID, &resp.PainRating, &at); err != nil {
			return nil, err
		}
		resp.At = fromUnix(at)
		res = append(res, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// CountResponses returns the size of the response log.
func (r *SQLRepo) CountResponses(ctx context.Context) (int, error) {
	var n int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM user_responses`).Scan(&n)
	return n, err
}

// CountRatingsSince returns per-level counts for responses at or after since.
// Every pain level is present in the result.
func (r *SQLRepo) CountRatingsSince(ctx context.Context, since time.Time) (map[int]int, error) {
	rows, err := r.query(ctx, `
		SELECT pain_rating, COUNT(*)
		FROM user_responses
		WHERE response_date >= ?
		GROUP BY pain_rating`,
		since.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := domain.EmptyLevelCounts()
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		res[level] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// --- Media ---

const mediaColumns = `id, pain_level, kind, file_id, title, description,
	duration_sec, created_by, created_at`

func scanMedia(s rowScanner) (*domain.MediaItem, error) {
	var (
		m           domain.MediaItem
		kind        string
		title       sql.NullString
		description sql.NullString
		duration    sql.NullInt64
		createdAt   int64
	)
	if err := s.Scan(
		&m.ID, &m.PainLevel, &kind, &m.FileID, &title, &description,
		&duration, &m.CreatedBy, &createdAt,
	); err != nil {
		return nil, err
	}
	m.Kind = domain.MediaKind(kind)
	m.Title = title.String
	m.Description = description.String
	m.DurationSec = int(duration.Int64)
	m.CreatedAt = fromUnix(createdAt)
	return &m, nil
}

// GetMedia returns the item for a pain level or domain.ErrNotFound.
func (r *SQLRepo) GetMedia(ctx context.Context, level int) (*domain.MediaItem, error) {
	m, err := scanMedia(r.queryRow(ctx, `
		SELECT `+mediaColumns+`
		FROM media_items
		WHERE pain_level = ?
		ORDER BY id DESC
		LIMIT 1`,
		level,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return m, err
}

// ListMedia returns all items ordered by pain level.
func (r *SQLRepo) ListMedia(ctx context.Context) ([]domain.MediaItem, error) {
	rows, err := r.query(ctx, `SELECT `+mediaColumns+` FROM media_items ORDER BY pain_level ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.MediaItem
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// ReplaceMedia deletes whatever is stored at item.PainLevel and inserts item.
// On success item.ID holds the new row id.
func (r *SQLRepo) ReplaceMedia(ctx context.Context, item *domain.MediaItem) error {
	if item == nil {
		return errors.New("nil media item")
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.d.rebind(`DELETE FROM media_items WHERE pain_level = ?`), item.PainLevel); err != nil {
			return fmt.Errorf("delete old media: %w", err)
		}
		row := tx.QueryRowContext(ctx, r.d.rebind(`
			INSERT INTO media_items (pain_level, kind, file_id, title, description, duration_sec, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			item.PainLevel, string(item.Kind), item.FileID, toNullString(item.Title), toNullString(item.Description),
			toNullCount(item.DurationSec), item.CreatedBy, unix(item.CreatedAt),
		)
		if err := row.Scan(&item.ID); err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		return nil
	})
}

// DeleteMedia removes the item at level; false means nothing was stored there.
func (r *SQLRepo) DeleteMedia(ctx context.Context, level int) (bool, error) {
	res, err := r.exec(ctx, `DELETE FROM media_items WHERE pain_level = ?`, level)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// UpdateMediaTitle patches the title in place.
func (r *SQLRepo) UpdateMediaTitle(ctx context.Context, level int, title string) (bool, error) {
	res, err := r.exec(ctx, `UPDATE media_items SET title = ? WHERE pain_level = ?`, toNullString(title), level)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// UpdateMediaDescription patches the description in place.
func (r *SQLRepo) UpdateMediaDescription(ctx context.Context, level int, description string) (bool, error) {
	res, err := r.exec(ctx, `UPDATE media_items SET description = ? WHERE pain_level = ?`, toNullString(description), level)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// --- Settings ---

// GetSetting returns a setting by name or domain.ErrNotFound.
func (r *SQLRepo) GetSetting(ctx context.Context, name string) (*domain.Setting, error) {
	var (
		s         domain.Setting
		updatedAt int64
	)
	err := r.queryRow(ctx, `
		SELECT name, value, updated_by, updated_at
		FROM bot_settings
		WHERE name = ?`,
		name,
	).Scan(&s.Name, &s.Value, &s.UpdatedBy, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = fromUnix(updatedAt)
	return &s, nil
}

// SetSetting inserts the setting or updates value, editor and timestamp.
func (r *SQLRepo) SetSetting(ctx context.Context, s domain.Setting) error {
	_, err := r.exec(ctx, `
		INSERT INTO bot_settings (name, value, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value      = excluded.value,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		s.Name, s.Value, s.UpdatedBy, unix(s.UpdatedAt),
	)
	return err
}

// ListSettings returns all stored settings ordered by name.
func (r *SQLRepo) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	rows, err := r.query(ctx, `SELECT name, value, updated_by, updated_at FROM bot_settings ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Setting
	for rows.Next() {
		var (
			s         domain.Setting
			updatedAt int64
		)
		if err := rows.Scan(&s.Name, &s.Value, &s.UpdatedBy, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = fromUnix(updatedAt)
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
