package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/adapter/postgres"
	"nbrb-service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRateUsecase struct {
	mock.Mock
}

func (m *mockRateUsecase) ListCurrencies(ctx context.Context) ([]usecase.CurrencyResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.CurrencyResponse), args.Error(1)
}

func (m *mockRateUsecase) CurrencyInfo(ctx context.Context, code string) (*usecase.CurrencyResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CurrencyResponse), args.Error(1)
}

func (m *mockRateUsecase) Rate(ctx context.Context, code, date string, monthly bool) (*usecase.RateResponse, error) {
	args := m.Called(ctx, code, date, monthly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RateResponse), args.Error(1)
}

func (m *mockRateUsecase) Rates(ctx context.Context, date string, monthly bool) ([]usecase.RateResponse, error) {
	args := m.Called(ctx, date, monthly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.RateResponse), args.Error(1)
}

func (m *mockRateUsecase) RateForPeriod(ctx context.Context, code, from, to string) (*usecase.PeriodResponse, error) {
	args := m.Called(ctx, code, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PeriodResponse), args.Error(1)
}

func (m *mockRateUsecase) SyncRates(ctx context.Context, date string, monthly bool) (*usecase.SyncResponse, error) {
	args := m.Called(ctx, date, monthly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SyncResponse), args.Error(1)
}

func (m *mockRateUsecase) ArchivedRate(ctx context.Context, code, date string, monthly bool) (*usecase.RateResponse, error) {
	args := m.Called(ctx, code, date, monthly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RateResponse), args.Error(1)
}

func (m *mockRateUsecase) ArchivedRates(ctx context.Context, code, from, to string) ([]usecase.RateResponse, error) {
	args := m.Called(ctx, code, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.RateResponse), args.Error(1)
}

func setupTestRouter() (*gin.Engine, *mockRateUsecase, *logrus.Logger, *test.Hook) {
	gin.SetMode(gin.TestMode)

	mockUsecase := new(mockRateUsecase)
	logger, hook := test.NewNullLogger()
	handler := NewCurrencyHandler(mockUsecase, logger)

	r := gin.New()
	handler.Register(r)
	return r, mockUsecase, logger, hook
}

func doRequest(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response["error"]
}

func TestListCurrencies_Success(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	expected := []usecase.CurrencyResponse{{ID: 431, CharCode: "USD", Name: "Доллар США", Scale: 1}}
	mockUsecase.On("ListCurrencies", mock.Anything).Return(expected, nil)

	w := doRequest(r, http.MethodGet, "/currencies")

	assert.Equal(t, http.StatusOK, w.Code)
	var response []usecase.CurrencyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, expected, response)

	mockUsecase.AssertExpectations(t)
}

func TestGetCurrency_Unknown(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	err := fmt.Errorf("currency info: %w: no data for %q is available", nbrb.ErrUnknownCurrency, "ZZZ")
	mockUsecase.On("CurrencyInfo", mock.Anything, "ZZZ").Return(nil, err)

	w := doRequest(r, http.MethodGet, "/currencies/ZZZ")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorBody(t, w), `no data for "ZZZ" is available`)
}

func TestGetRate_Success(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	expected := &usecase.RateResponse{CharCode: "USD", CurID: 431, Date: "2024-01-09", Scale: 1, OfficialRate: 3.2, ValueBYN: 3.2}
	mockUsecase.On("Rate", mock.Anything, "usd", "2024-01-09", true).Return(expected, nil)

	w := doRequest(r, http.MethodGet, "/rates/usd?date=2024-01-09&monthly=true")

	assert.Equal(t, http.StatusOK, w.Code)
	var response usecase.RateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, expected, &response)

	mockUsecase.AssertExpectations(t)
}

func TestGetRate_InvalidMonthly(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	w := doRequest(r, http.MethodGet, "/rates/USD?monthly=sometimes")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "invalid query parameters")
	mockUsecase.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: invalid date format", usecase.ErrInvalidInput), http.StatusBadRequest},
		{"unknown currency", nbrb.ErrUnknownCurrency, http.StatusNotFound},
		{"upstream status", fmt.Errorf("get rate: %w: 404: not found", nbrb.ErrUnexpectedStatus), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mockUsecase, _, _ := setupTestRouter()
			mockUsecase.On("Rate", mock.Anything, "USD", "", false).Return(nil, tt.err)

			w := doRequest(r, http.MethodGet, "/rates/USD")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.err.Error(), errorBody(t, w))
		})
	}
}

func TestListRates_Success(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	expected := []usecase.RateResponse{{CharCode: "USD"}, {CharCode: "EUR"}}
	mockUsecase.On("Rates", mock.Anything, "2024-01-09", false).Return(expected, nil)

	w := doRequest(r, http.MethodGet, "/rates?date=2024-01-09")

	assert.Equal(t, http.StatusOK, w.Code)
	var response []usecase.RateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)

	mockUsecase.AssertExpectations(t)
}

func TestGetRateForPeriod_Success(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	expected := &usecase.PeriodResponse{
		CharCode: "USD",
		From:     "2024-01-01",
		To:       "2024-01-02",
		Rates:    map[string]float64{"2024-01-01": 3.2, "2024-01-02": 3.21},
	}
	mockUsecase.On("RateForPeriod", mock.Anything, "USD", "2024-01-01", "2024-01-02").Return(expected, nil)

	w := doRequest(r, http.MethodGet, "/rates/USD/period?from=2024-01-01&to=2024-01-02")

	assert.Equal(t, http.StatusOK, w.Code)
	var response usecase.PeriodResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, expected, &response)
}

func TestGetRateForPeriod_MissingParams(t *testing.T) {
	r, _, _, _ := setupTestRouter()

	w := doRequest(r, http.MethodGet, "/rates/USD/period?from=2024-01-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetArchivedRates_Range(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	mockUsecase.On("ArchivedRates", mock.Anything, "USD", "2024-01-01", "2024-01-03").
		Return([]usecase.RateResponse{{CharCode: "USD", Date: "2024-01-02"}}, nil)

	w := doRequest(r, http.MethodGet, "/archive/USD?from=2024-01-01&to=2024-01-03")

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsecase.AssertExpectations(t)
}

func TestGetArchivedRates_SingleDateNotFound(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	mockUsecase.On("ArchivedRate", mock.Anything, "USD", "2024-01-01", false).Return(nil, postgres.ErrNotFound)

	w := doRequest(r, http.MethodGet, "/archive/USD?date=2024-01-01")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", errorBody(t, w))
}

func TestGetArchivedRates_NoRange(t *testing.T) {
	r, _, _, _ := setupTestRouter()

	w := doRequest(r, http.MethodGet, "/archive/USD?from=2024-01-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "'from' and 'to'")
}

func TestSyncRates_Success(t *testing.T) {
	r, mockUsecase, _, _ := setupTestRouter()

	expected := &usecase.SyncResponse{Date: "2024-01-09", Stored: 27}
	mockUsecase.On("SyncRates", mock.Anything, "2024-01-09", false).Return(expected, nil)

	w := doRequest(r, http.MethodPost, "/sync?date=2024-01-09")

	assert.Equal(t, http.StatusOK, w.Code)
	var response usecase.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, expected, &response)
}

func TestSyncRates_Error(t *testing.T) {
	r, mockUsecase, _, hook := setupTestRouter()

	mockUsecase.On("SyncRates", mock.Anything, "", false).Return(nil, errors.New("store rates in DB: connection refused"))

	w := doRequest(r, http.MethodPost, "/sync")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Failed to sync rates", hook.LastEntry().Message)
}

func TestSyncRates_GetNotAllowed(t *testing.T) {
	r, _, _, _ := setupTestRouter()

	w := doRequest(r, http.MethodGet, "/sync")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
