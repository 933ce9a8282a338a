package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/adapter/postgres"
	"nbrb-service/internal/entity"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type RateService struct {
	nbrb   nbrb.NbrbClient
	dbRepo postgres.PostgresRepository
	logger *logrus.Logger
}

func NewRateService(nbrb nbrb.NbrbClient, dbRepo postgres.PostgresRepository, logger *logrus.Logger) *RateService {
	return &RateService{
		nbrb:   nbrb,
		dbRepo: dbRepo,
		logger: logger,
	}
}

func (r *RateService) Currencies(ctx context.Context) ([]nbrb.Currency, error) {
	r.logger.Debug("Fetching currency list from NBRB")

	currencies, err := r.nbrb.ListCurrencies(ctx)
	if err != nil {
		r.logger.Errorf("Failed to fetch currencies from NBRB: %v", err)
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	r.logger.Debugf("Fetched %d currencies", len(currencies))
	return currencies, nil
}

func (r *RateService) CurrencyInfo(ctx context.Context, code string) (*nbrb.Currency, error) {
	r.logger.Debugf("Fetching currency info for %s", code)

	currency, err := r.nbrb.CurrencyInfo(ctx, code)
	if err != nil {
		r.logger.Errorf("Failed to fetch currency info for %s: %v", code, err)
		return nil, fmt.Errorf("currency info: %w", err)
	}
	return currency, nil
}

func (r *RateService) Rate(ctx context.Context, q nbrb.RateQuery) (*nbrb.Rate, error) {
	r.logger.WithFields(logrus.Fields{
		"currency": q.Currency,
		"date":     q.Date,
		"monthly":  q.Monthly,
	}).Debug("Fetching rate from NBRB")

	rate, err := r.nbrb.GetRate(ctx, q)
	if err != nil {
		r.logger.Errorf("Failed to fetch rate for %s: %v", q.Currency, err)
		return nil, fmt.Errorf("get rate: %w", err)
	}

	r.logger.Infof("Fetched rate for %s on %s: %s BYN per %d", rate.Abbreviation, rate.Date, rate.OfficialRate, rate.Scale)
	return rate, nil
}

func (r *RateService) Rates(ctx context.Context, q nbrb.RateQuery) ([]nbrb.Rate, error) {
	r.logger.WithFields(logrus.Fields{
		"date":    q.Date,
		"monthly": q.Monthly,
	}).Debug("Fetching rates list from NBRB")

	rates, err := r.nbrb.ListRates(ctx, q)
	if err != nil {
		r.logger.Errorf("Failed to fetch rates list: %v", err)
		return nil, fmt.Errorf("list rates: %w", err)
	}

	r.logger.Debugf("Fetched %d rates", len(rates))
	return rates, nil
}

func (r *RateService) RateForPeriod(ctx context.Context, code, from, to string) (map[string]float64, error) {
	r.logger.Infof("Fetching daily rates for %s from %s to %s", code, from, to)

	rates, err := r.nbrb.GetRateForPeriod(ctx, code, from, to)
	if err != nil {
		r.logger.Errorf("Failed to fetch rates for period: %v", err)
		return nil, fmt.Errorf("rate for period: %w", err)
	}
	return rates, nil
}

// SyncRates archives the full NBRB rates list for date (today when empty)
// and returns the number of stored records.
func (r *RateService) SyncRates(ctx context.Context, date string, monthly bool) (int, error) {
	q := nbrb.RateQuery{Date: date, Monthly: monthly}
	r.logger.Infof("Syncing NBRB rates (date=%q, periodicity=%d)...", date, q.Periodicity())

	resp, err := r.nbrb.ListRates(ctx, q)
	if err != nil {
		r.logger.Errorf("Failed to fetch rates from NBRB: %v", err)
		return 0, fmt.Errorf("fetch rates: %w", err)
	}

	rates, err := convertNbrbRates(resp, q.Periodicity(), time.Now().UTC(), r.logger)
	if err != nil {
		r.logger.Errorf("Failed to convert response: %v", err)
		return 0, fmt.Errorf("convert response: %w", err)
	}

	if len(rates) == 0 {
		r.logger.Warn("No rates found in response")
		return 0, errors.New("no rates to store")
	}

	if err := r.dbRepo.StoreRates(ctx, rates); err != nil {
		r.logger.Errorf("Failed to store rates in DB: %v", err)
		return 0, fmt.Errorf("store rates in DB: %w", err)
	}

	r.logger.Infof("Archived %d rates for %s", len(rates), rates[0].Date.Format("2006-01-02"))
	return len(rates), nil
}

func (r *RateService) ArchivedRate(ctx context.Context, code, date string, monthly bool) (*entity.Rate, error) {
	periodicity := nbrb.PeriodicityDaily
	if monthly {
		periodicity = nbrb.PeriodicityMonthly
	}

	rate, err := r.dbRepo.GetRate(ctx, code, date, periodicity)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			r.logger.Debugf("No archived rate for %s on %s", code, date)
		} else {
			r.logger.WithError(err).Error("DB error querying archived rate")
		}
		return nil, fmt.Errorf("archived rate %s on %s: %w", code, date, err)
	}
	return rate, nil
}

func (r *RateService) ArchivedRates(ctx context.Context, code string, from, to time.Time) ([]entity.Rate, error) {
	rates, err := r.dbRepo.GetRatesForPeriod(ctx, code, from, to)
	if err != nil {
		r.logger.WithError(err).Error("DB error querying archived rates")
		return nil, fmt.Errorf("archived rates: %w", err)
	}

	r.logger.Debugf("Found %d archived rates for %s", len(rates), code)
	return rates, nil
}

func convertNbrbRates(resp []nbrb.Rate, periodicity int, now time.Time, logger logrus.FieldLogger) ([]entity.Rate, error) {
	var result []entity.Rate
	var errs []error

	if len(resp) == 0 {
		logger.Warn("No rates found in response")
		return result, nil
	}

	skipped := 0
	for _, rec := range resp {
		if rec.Abbreviation == "" || rec.Date.IsZero() {
			logger.Debugf("Skipped record %d without abbreviation or date", rec.ID)
			skipped++
			continue
		}
		if rec.Scale <= 0 {
			logger.Debugf("Skipped %s due to scale %d", rec.Abbreviation, rec.Scale)
			skipped++
			continue
		}
		if !rec.OfficialRate.IsPositive() {
			logger.Debugf("Skipped %s due to non-positive rate", rec.Abbreviation)
			skipped++
			continue
		}

		result = append(result, entity.Rate{
			CharCode:     rec.Abbreviation,
			CurID:        rec.ID,
			Name:         rec.Name,
			Date:         rec.Date.Time,
			Periodicity:  periodicity,
			Scale:        rec.Scale,
			OfficialRate: rec.OfficialRate.InexactFloat64(),
			UpdatedAt:    now,
		})
	}

	logger.Infof("Converted %d valid rates out of %d (skipped %d)", len(result), len(resp), skipped)

	if len(result) == 0 {
		errs = append(errs, fmt.Errorf("all %d rates were skipped", len(resp)))
	}

	if len(errs) > 0 {
		return result, multierr.Combine(errs...)
	}
	return result, nil
}
