package nbrb

import "context"

type NbrbClient interface {
	ListCurrencies(ctx context.Context) ([]Currency, error)
	CurrencyInfo(ctx context.Context, code string) (*Currency, error)
	GetRate(ctx context.Context, q RateQuery) (*Rate, error)
	ListRates(ctx context.Context, q RateQuery) ([]Rate, error)
	GetRateForPeriod(ctx context.Context, currency, start, end string) (map[string]float64, error)
}
