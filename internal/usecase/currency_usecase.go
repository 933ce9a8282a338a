package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/entity"
	"nbrb-service/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

var ErrInvalidInput = errors.New("invalid input")

var charCodeRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

type CurrencyUsecase struct {
	service       service.CurrencyService
	logger        *logrus.Logger
	maxPeriodDays int
	now           func() time.Time
}

func NewCurrencyUsecase(service service.CurrencyService, logger *logrus.Logger, maxPeriodDays int) *CurrencyUsecase {
	return &CurrencyUsecase{
		service:       service,
		logger:        logger,
		maxPeriodDays: maxPeriodDays,
		now:           time.Now,
	}
}

func (uc *CurrencyUsecase) validateCode(charCode string) (string, error) {
	code := cases.Upper(language.Und).String(strings.TrimSpace(charCode))
	if !charCodeRegexp.MatchString(code) {
		uc.logger.Errorf("Bad currency code format %q", charCode)
		return "", fmt.Errorf("%w: invalid char code format %q, expected 3 letters", ErrInvalidInput, charCode)
	}
	return code, nil
}

// validateDate parses a YYYY-MM-DD date. NBRB publishes the next day's rates in
// advance, so tomorrow is the latest date accepted.
func (uc *CurrencyUsecase) validateDate(date string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		uc.logger.WithError(err).Errorf("Invalid date format: %s", date)
		return time.Time{}, fmt.Errorf("%w: invalid date format %q, expected YYYY-MM-DD", ErrInvalidInput, date)
	}

	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today.AddDate(0, 0, 1)) {
		uc.logger.Warnf("Requested future date: %s", date)
		return time.Time{}, fmt.Errorf("%w: cannot fetch rates for future date %s", ErrInvalidInput, date)
	}
	return d, nil
}

// validateOptionalDate accepts an empty date, which NBRB reads as today.
func (uc *CurrencyUsecase) validateOptionalDate(date string) error {
	if date == "" {
		return nil
	}
	_, err := uc.validateDate(date)
	return err
}

func (uc *CurrencyUsecase) validatePeriod(from, to string) (time.Time, time.Time, error) {
	start, err := uc.validateDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := uc.validateDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period start %s is after end %s", ErrInvalidInput, from, to)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if uc.maxPeriodDays > 0 && days > uc.maxPeriodDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period of %d days exceeds the limit of %d", ErrInvalidInput, days, uc.maxPeriodDays)
	}
	return start, end, nil
}

func (uc *CurrencyUsecase) ListCurrencies(ctx context.Context) ([]CurrencyResponse, error) {
	currencies, err := uc.service.Currencies(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to list currencies")
		return nil, err
	}

	result := make([]CurrencyResponse, 0, len(currencies))
	for _, cur := range currencies {
		result = append(result, toCurrencyResponse(cur))
	}
	return result, nil
}

func (uc *CurrencyUsecase) CurrencyInfo(ctx context.Context, charCode string) (*CurrencyResponse, error) {
	code, err := uc.validateCode(charCode)
	if err != nil {
		return nil, err
	}

	cur, err := uc.service.CurrencyInfo(ctx, code)
	if err != nil {
		uc.logger.WithError(err).Errorf("Failed to get currency info for %s", code)
		return nil, err
	}

	result := toCurrencyResponse(*cur)
	return &result, nil
}

func (uc *CurrencyUsecase) Rate(ctx context.Context, charCode, date string, monthly bool) (*RateResponse, error) {
	code, err := uc.validateCode(charCode)
	if err != nil {
		return nil, err
	}
	if err := uc.validateOptionalDate(date); err != nil {
		return nil, err
	}

	rate, err := uc.service.Rate(ctx, nbrb.RateQuery{Currency: code, Date: date, Monthly: monthly})
	if err != nil {
		uc.logger.WithError(err).Errorf("Failed to get rate for %s on %q", code, date)
		return nil, err
	}

	result, err := toRateResponse(*rate, monthly)
	if err != nil {
		return nil, err
	}

	uc.logger.Infof("Successfully fetched rate for %s on %s: %.4f BYN per unit", result.CharCode, result.Date, result.ValueBYN)
	return result, nil
}

func (uc *CurrencyUsecase) Rates(ctx context.Context, date string, monthly bool) ([]RateResponse, error) {
	if err := uc.validateOptionalDate(date); err != nil {
		return nil, err
	}

	rates, err := uc.service.Rates(ctx, nbrb.RateQuery{Date: date, Monthly: monthly})
	if err != nil {
		uc.logger.WithError(err).Errorf("Failed to list rates for %q", date)
		return nil, err
	}

	result := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		resp, err := toRateResponse(rate, monthly)
		if err != nil {
			uc.logger.WithError(err).Warn("Skipping rate with zero scale")
			continue
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (uc *CurrencyUsecase) RateForPeriod(ctx context.Context, charCode, from, to string) (*PeriodResponse, error) {
	code, err := uc.validateCode(charCode)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.validatePeriod(from, to); err != nil {
		return nil, err
	}

	rates, err := uc.service.RateForPeriod(ctx, code, from, to)
	if err != nil {
		uc.logger.WithError(err).Errorf("Failed to get rates for %s from %s to %s", code, from, to)
		return nil, err
	}

	return &PeriodResponse{
		CharCode: code,
		From:     from,
		To:       to,
		Rates:    rates,
	}, nil
}

func (uc *CurrencyUsecase) SyncRates(ctx context.Context, date string, monthly bool) (*SyncResponse, error) {
	if err := uc.validateOptionalDate(date); err != nil {
		return nil, err
	}

	uc.logger.Info("Syncing rates from NBRB...")
	stored, err := uc.service.SyncRates(ctx, date, monthly)
	if err != nil {
		return nil, err
	}

	return &SyncResponse{Date: date, Monthly: monthly, Stored: stored}, nil
}

func (uc *CurrencyUsecase) ArchivedRate(ctx context.Context, charCode, date string, monthly bool) (*RateResponse, error) {
	code, err := uc.validateCode(charCode)
	if err != nil {
		return nil, err
	}
	if _, err := uc.validateDate(date); err != nil {
		return nil, err
	}

	rate, err := uc.service.ArchivedRate(ctx, code, date, monthly)
	if err != nil {
		return nil, err
	}

	result := fromEntity(*rate)
	return &result, nil
}

func (uc *CurrencyUsecase) ArchivedRates(ctx context.Context, charCode, from, to string) ([]RateResponse, error) {
	code, err := uc.validateCode(charCode)
	if err != nil {
		return nil, err
	}
	start, end, err := uc.validatePeriod(from, to)
	if err != nil {
		return nil, err
	}

	rates, err := uc.service.ArchivedRates(ctx, code, start, end)
	if err != nil {
		return nil, err
	}

	result := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		result = append(result, fromEntity(rate))
	}
	return result, nil
}

func toCurrencyResponse(cur nbrb.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:           cur.ID,
		CharCode:     cur.Abbreviation,
		NumCode:      cur.Code,
		Name:         cur.Name,
		NameEng:      cur.NameEng,
		Scale:        cur.Scale,
		Periodicity:  cur.Periodicity,
		DateStart:    cur.DateStart.String(),
		DateEnd:      cur.DateEnd.String(),
		ParentID:     cur.ParentID,
		QuotNameEng:  cur.QuotNameEng,
		NameEngMulti: cur.NameEngMulti,
	}
}

func toRateResponse(rate nbrb.Rate, monthly bool) (*RateResponse, error) {
	perUnit, err := rate.PerUnit()
	if err != nil {
		return nil, err
	}

	periodicity := nbrb.PeriodicityDaily
	if monthly {
		periodicity = nbrb.PeriodicityMonthly
	}

	return &RateResponse{
		CharCode:     rate.Abbreviation,
		CurID:        rate.ID,
		Name:         rate.Name,
		Date:         rate.Date.String(),
		Periodicity:  periodicity,
		Scale:        rate.Scale,
		OfficialRate: rate.OfficialRate.InexactFloat64(),
		ValueBYN:     perUnit.InexactFloat64(),
	}, nil
}

func fromEntity(rate entity.Rate) RateResponse {
	return RateResponse{
		CharCode:     rate.CharCode,
		CurID:        rate.CurID,
		Name:         rate.Name,
		Date:         rate.Date.Format(dateLayout),
		Periodicity:  rate.Periodicity,
		Scale:        rate.Scale,
		OfficialRate: rate.OfficialRate,
		ValueBYN:     rate.PerUnit(),
	}
}
