package service

import (
	"context"
	"time"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/entity"
)

type CurrencyService interface {
	Currencies(ctx context.Context) ([]nbrb.Currency, error)
	CurrencyInfo(ctx context.Context, code string) (*nbrb.Currency, error)
	Rate(ctx context.Context, q nbrb.RateQuery) (*nbrb.Rate, error)
	Rates(ctx context.Context, q nbrb.RateQuery) ([]nbrb.Rate, error)
	RateForPeriod(ctx context.Context, code, from, to string) (map[string]float64, error)
	SyncRates(ctx context.Context, date string, monthly bool) (int, error)
	ArchivedRate(ctx context.Context, code, date string, monthly bool) (*entity.Rate, error)
	ArchivedRates(ctx context.Context, code string, from, to time.Time) ([]entity.Rate, error)
}
