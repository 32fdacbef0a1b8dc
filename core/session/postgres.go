package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the sessions table.
// The schema is managed by migrations; see migrations/.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Get(ctx context.Context, key Key) (Session, bool, error) {
	var beverage string
	start := time.Now()
	err := p.db.GetContext(ctx, &beverage,
		`SELECT beverage FROM sessions WHERE hash_key = $1`, key.String())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Session{}, false, nil
	case err != nil:
		logger.SESS.LogAttrs(ctx, slog.LevelError, "session.get",
			slog.String("status", "fail"),
			slog.String("key", key.String()),
			slog.String("err", err.Error()),
		)
		return Session{}, false, fmt.Errorf("session get %s: %w", key, err)
	}
	logger.SESS.LogAttrs(ctx, slog.LevelDebug, "session.get",
		slog.String("status", "ok"),
		slog.String("key", key.String()),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	if beverage == "" {
		return Session{}, true, nil
	}
	return Session{Beverage: catalog.Beverage(beverage)}, true, nil
}

func (p *postgresStore) Put(ctx context.Context, key Key, s Session) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (hash_key, beverage, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (hash_key)
		 DO UPDATE SET beverage = EXCLUDED.beverage, updated_at = now()`,
		key.String(), string(s.Beverage))
	if err != nil {
		logger.SESS.LogAttrs(ctx, slog.LevelError, "session.put",
			slog.String("status", "fail"),
			slog.String("key", key.String()),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("session put %s: %w", key, err)
	}
	logger.SESS.LogAttrs(ctx, slog.LevelDebug, "session.put",
		slog.String("status", "ok"),
		slog.String("key", key.String()),
		slog.String("beverage", string(s.Beverage)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
