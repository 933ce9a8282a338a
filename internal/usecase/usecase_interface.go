package usecase

import (
	"context"
)

type RateUsecase interface {
	ListCurrencies(ctx context.Context) ([]CurrencyResponse, error)
	CurrencyInfo(ctx context.Context, code string) (*CurrencyResponse, error)
	Rate(ctx context.Context, code, date string, monthly bool) (*RateResponse, error)
	Rates(ctx context.Context, date string, monthly bool) ([]RateResponse, error)
	RateForPeriod(ctx context.Context, code, from, to string) (*PeriodResponse, error)
	SyncRates(ctx context.Context, date string, monthly bool) (*SyncResponse, error)
	ArchivedRate(ctx context.Context, code, date string, monthly bool) (*RateResponse, error)
	ArchivedRates(ctx context.Context, code, from, to string) ([]RateResponse, error)
}
