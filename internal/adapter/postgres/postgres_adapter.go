package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nbrb-service/internal/entity"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const ratesTable = "nbrb_rates"

var (
	psql        = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	ErrNotFound = errors.New("not found")

	rateColumns = []string{"char_code", "cur_id", "name", "date", "periodicity", "scale", "official_rate", "updated_at"}
)

type PostgresRepo struct {
	pool   Pool
	logger *logrus.Logger
}

func NewPostgresRepo(pool Pool, logger *logrus.Logger) *PostgresRepo {
	return &PostgresRepo{
		pool:   pool,
		logger: logger,
	}
}

func upsertRateQuery(rate entity.Rate) (string, []any, error) {
	return psql.Insert(ratesTable).
		Columns(rateColumns...).
		Values(rate.CharCode, rate.CurID, rate.Name, rate.Date, rate.Periodicity, rate.Scale, rate.OfficialRate, rate.UpdatedAt).
		Suffix(`
                ON CONFLICT (char_code, date, periodicity) DO UPDATE SET
                    cur_id = EXCLUDED.cur_id,
                    name = EXCLUDED.name,
                    scale = EXCLUDED.scale,
                    official_rate = EXCLUDED.official_rate,
                    updated_at = EXCLUDED.updated_at
            `).
		ToSql()
}

func (r *PostgresRepo) StoreRates(ctx context.Context, rates []entity.Rate) error {
	if len(rates) == 0 {
		return nil
	}
	r.logger.Infof("Start storing %d rates", len(rates))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("begin tx: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rate := range rates {
		query, args, err := upsertRateQuery(rate)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("build insert for %s on %s: %w", rate.CharCode, rate.Date.Format("2006-01-02"), err)
		}
		batch.Queue(query, args...)
	}

	br := tx.SendBatch(ctx, batch)

	var batchErrs error
	var affected int64
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			batchErrs = multierr.Append(batchErrs, err)
			r.logger.WithError(err).Errorf("Failed batch exec for rate %d", i)
			continue
		}
		affected += ct.RowsAffected()
	}

	if err := br.Close(); err != nil {
		batchErrs = multierr.Append(batchErrs, err)
		r.logger.WithError(err).Error("Failed to close batch results")
	}

	if batchErrs != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.logger.WithError(rbErr).Error("Failed to rollback tx after batch errors")
		}
		return fmt.Errorf("batch exec/close errors: %w", batchErrs)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithError(err).Error("Failed to commit tx")
		return fmt.Errorf("commit tx: %w", err)
	}

	r.logger.Infof("Successfully stored %d rates", affected)
	return nil
}

func (r *PostgresRepo) GetRate(ctx context.Context, charCode, date string, periodicity int) (*entity.Rate, error) {
	fields := logrus.Fields{"char_code": charCode, "date": date, "periodicity": periodicity}
	r.logger.WithFields(fields).Debug("Getting archived rate")

	query, args, err := psql.
		Select(rateColumns...).
		From(ratesTable).
		Where(sq.Eq{"char_code": strings.ToUpper(charCode), "date": date, "periodicity": periodicity}).
		Limit(1).
		ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build select query")
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rate entity.Rate
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(
			&rate.CharCode,
			&rate.CurID,
			&rate.Name,
			&rate.Date,
			&rate.Periodicity,
			&rate.Scale,
			&rate.OfficialRate,
			&rate.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithFields(fields).Debug("Archived rate not found")
			return nil, ErrNotFound
		}
		r.logger.WithError(err).WithFields(fields).Error("Failed to query archived rate")
		return nil, fmt.Errorf("query scan: %w", err)
	}

	return &rate, nil
}

func (r *PostgresRepo) GetRatesForPeriod(ctx context.Context, charCode string, from, to time.Time) ([]entity.Rate, error) {
	fields := logrus.Fields{
		"char_code": charCode,
		"from":      from.Format("2006-01-02"),
		"to":        to.Format("2006-01-02"),
	}
	r.logger.WithFields(fields).Debug("Getting archived rates for period")

	query, args, err := psql.
		Select(rateColumns...).
		From(ratesTable).
		Where(sq.Eq{"char_code": strings.ToUpper(charCode)}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		OrderBy("date", "periodicity").
		ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build period query")
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).WithFields(fields).Error("Failed to query archived rates")
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var rates []entity.Rate
	for rows.Next() {
		var rate entity.Rate
		if err := rows.Scan(
			&rate.CharCode,
			&rate.CurID,
			&rate.Name,
			&rate.Date,
			&rate.Periodicity,
			&rate.Scale,
			&rate.OfficialRate,
			&rate.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	r.logger.WithFields(fields).Debugf("Found %d archived rates", len(rates))
	return rates, nil
}
