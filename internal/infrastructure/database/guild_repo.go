package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"riseup/internal/domain"
	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

var (
	_ output.GuildStore = (*PostgresGuildRepository)(nil)
	_ output.GuildStore = (*SQLiteGuildRepository)(nil)
)

type PostgresGuildRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresGuildRepository(pool *pgxpool.Pool) *PostgresGuildRepository {
	return &PostgresGuildRepository{pool: pool}
}

func (r *PostgresGuildRepository) Get(ctx context.Context, guildID string) (entities.GuildConfig, error) {
	var cfg entities.GuildConfig
	err := r.pool.QueryRow(ctx,
		`SELECT rise_up_channel_id FROM guild_configs WHERE guild_id = $1`,
		guildID,
	).Scan(&cfg.RiseUpChannelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.GuildConfig{}, domain.ErrGuildNotConfigured
	}
	if err != nil {
		return entities.GuildConfig{}, fmt.Errorf("get guild config: %w", err)
	}
	return cfg, nil
}

func (r *PostgresGuildRepository) Put(ctx context.Context, guildID string, cfg entities.GuildConfig) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO guild_configs (guild_id, rise_up_channel_id, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (guild_id) DO UPDATE
		 SET rise_up_channel_id = EXCLUDED.rise_up_channel_id, updated_at = now()`,
		guildID, cfg.RiseUpChannelID,
	)
	if err != nil {
		return fmt.Errorf("put guild config: %w", err)
	}
	return nil
}

type SQLiteGuildRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteGuildRepository(db *sql.DB) *SQLiteGuildRepository {
	return &SQLiteGuildRepository{db: db, now: time.Now}
}

func (r *SQLiteGuildRepository) Get(ctx context.Context, guildID string) (entities.GuildConfig, error) {
	var cfg entities.GuildConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT rise_up_channel_id FROM guild_configs WHERE guild_id = ?`,
		guildID,
	).Scan(&cfg.RiseUpChannelID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.GuildConfig{}, domain.ErrGuildNotConfigured
	}
	if err != nil {
		return entities.GuildConfig{}, fmt.Errorf("get guild config: %w", err)
	}
	return cfg, nil
}

func (r *SQLiteGuildRepository) Put(ctx context.Context, guildID string, cfg entities.GuildConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, rise_up_channel_id, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (guild_id) DO UPDATE
		 SET rise_up_channel_id = excluded.rise_up_channel_id, updated_at = excluded.updated_at`,
		guildID, cfg.RiseUpChannelID, r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put guild config: %w", err)
	}
	return nil
}
