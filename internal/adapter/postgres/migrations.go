package postgres

import (
	"context"
	"fmt"
)

const createRatesTable = `
create table if not exists nbrb_rates (
    char_code     varchar(3)     not null,
    date          date           not null,
    periodicity   smallint       not null default 0,
    cur_id        integer        not null,
    name          text           not null,
    scale         integer        not null check (scale > 0),
    official_rate numeric(20, 4) not null check (official_rate >= 0),
    updated_at    timestamptz    not null default now(),
    primary key (char_code, date, periodicity)
);

create index if not exists idx_nbrb_rates_date on nbrb_rates (date desc);
`

func (r *PostgresRepo) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createRatesTable); err != nil {
		r.logger.WithError(err).Error("Failed to ensure nbrb_rates table")
		return fmt.Errorf("ensure table nbrb_rates: %w", err)
	}
	r.logger.Info("Schema is up to date")
	return nil
}
