package nbrb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	PeriodicityDaily   = 0
	PeriodicityMonthly = 1
)

// RateQuery selects official BYN rates. Date is YYYY-MM-DD; empty means
// whatever NBRB treats as today. Currency is an abbreviation such as "USD".
type RateQuery struct {
	Date     string
	Currency string
	Monthly  bool
}

func (q RateQuery) Periodicity() int {
	if q.Monthly {
		return PeriodicityMonthly
	}
	return PeriodicityDaily
}

// NormalizeDate strips the leading zero after each dash: "2024-05-09" -> "2024-5-9".
func NormalizeDate(date string) string {
	return strings.ReplaceAll(date, "-0", "-")
}

func (c *Client) rateURL(q RateQuery) (string, error) {
	params := NewParams()
	url := c.baseURL + "/rates"

	if q.Currency != "" {
		if !c.currencies.Has(q.Currency) {
			return "", fmt.Errorf("%w: no data for %q is available", ErrUnknownCurrency, q.Currency)
		}
		url += "/" + q.Currency
		params.Add("parammode", paramModeAbbreviation)
	}

	if q.Date != "" {
		params.Add("date", NormalizeDate(q.Date))
	}

	params.Add("periodicity", q.Periodicity())

	return url + "?" + params.String(), nil
}

// GetRate returns the official rate of one currency.
func (c *Client) GetRate(ctx context.Context, q RateQuery) (*Rate, error) {
	if q.Currency == "" {
		return nil, errors.New("currency is required")
	}

	url, err := c.rateURL(q)
	if err != nil {
		return nil, err
	}

	var rate Rate
	if err := c.getJSON(ctx, url, &rate); err != nil {
		return nil, fmt.Errorf("get rate %s: %w", q.Currency, err)
	}
	return &rate, nil
}

// ListRates returns the official rates of every currency NBRB quotes for the date.
func (c *Client) ListRates(ctx context.Context, q RateQuery) ([]Rate, error) {
	if q.Currency != "" {
		return nil, errors.New("currency must be empty for a rates list")
	}

	url, err := c.rateURL(q)
	if err != nil {
		return nil, err
	}

	var rates []Rate
	if err := c.getJSON(ctx, url, &rates); err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return rates, nil
}

// GetRateForPeriod returns the per-unit daily rate of a currency for every
// calendar day in [start, end], keyed by YYYY-MM-DD. It makes one request per day.
func (c *Client) GetRateForPeriod(ctx context.Context, currency, start, end string) (map[string]float64, error) {
	if !c.currencies.Has(currency) {
		return nil, fmt.Errorf("%w: no data for %q is available", ErrUnknownCurrency, currency)
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	rates := make(map[string]float64)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		rate, err := c.GetRate(ctx, RateQuery{Currency: currency, Date: date})
		if err != nil {
			return nil, err
		}

		perUnit, err := rate.PerUnit()
		if err != nil {
			return nil, err
		}
		rates[date] = perUnit.InexactFloat64()
	}

	c.logger.Debugf("Collected %d daily rates for %s from %s to %s", len(rates), currency, start, end)
	return rates, nil
}
