package postgres

import (
	"context"
	"time"

	"nbrb-service/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository interface {
	StoreRates(ctx context.Context, rates []entity.Rate) error
	GetRate(ctx context.Context, charCode, date string, periodicity int) (*entity.Rate, error)
	GetRatesForPeriod(ctx context.Context, charCode string, from, to time.Time) ([]entity.Rate, error)
}

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
