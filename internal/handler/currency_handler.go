package handler

import (
	"errors"
	"net/http"

	"nbrb-service/internal/adapter/nbrb"
	"nbrb-service/internal/adapter/postgres"
	"nbrb-service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CurrencyHandler struct {
	usecase usecase.RateUsecase
	logger  *logrus.Logger
}

func NewCurrencyHandler(usecase usecase.RateUsecase, logger *logrus.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *CurrencyHandler) Register(r gin.IRouter) {
	r.GET("/currencies", h.ListCurrencies)
	r.GET("/currencies/:code", h.GetCurrency)
	r.GET("/rates", h.ListRates)
	r.GET("/rates/:code", h.GetRate)
	r.GET("/rates/:code/period", h.GetRateForPeriod)
	r.GET("/archive/:code", h.GetArchivedRates)
	r.POST("/sync", h.SyncRates)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, nbrb.ErrUnknownCurrency), errors.Is(err, postgres.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, nbrb.ErrUnexpectedStatus):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *CurrencyHandler) fail(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	entry := h.logger.WithError(err).WithField("path", c.Request.URL.Path)
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *CurrencyHandler) badQuery(c *gin.Context, err error) {
	h.logger.WithError(err).Debugf("Invalid query: %s", c.Request.URL.RawQuery)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
}

func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	result, err := h.usecase.ListCurrencies(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	result, err := h.usecase.CurrencyInfo(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err, "Failed to get currency info")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) ListRates(c *gin.Context) {
	var q RateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badQuery(c, err)
		return
	}

	result, err := h.usecase.Rates(c.Request.Context(), q.Date, q.Monthly)
	if err != nil {
		h.fail(c, err, "Failed to list rates")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetRate(c *gin.Context) {
	var q RateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badQuery(c, err)
		return
	}

	result, err := h.usecase.Rate(c.Request.Context(), c.Param("code"), q.Date, q.Monthly)
	if err != nil {
		h.fail(c, err, "Failed to get rate")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetRateForPeriod(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badQuery(c, err)
		return
	}

	result, err := h.usecase.RateForPeriod(c.Request.Context(), c.Param("code"), q.From, q.To)
	if err != nil {
		h.fail(c, err, "Failed to get rates for period")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetArchivedRates(c *gin.Context) {
	var q ArchiveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badQuery(c, err)
		return
	}

	code := c.Param("code")
	if q.Date != "" {
		result, err := h.usecase.ArchivedRate(c.Request.Context(), code, q.Date, q.Monthly)
		if err != nil {
			h.fail(c, err, "Failed to get archived rate")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	if q.From == "" || q.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either 'date' or both 'from' and 'to' are required"})
		return
	}

	result, err := h.usecase.ArchivedRates(c.Request.Context(), code, q.From, q.To)
	if err != nil {
		h.fail(c, err, "Failed to get archived rates")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) SyncRates(c *gin.Context) {
	var q RateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badQuery(c, err)
		return
	}

	result, err := h.usecase.SyncRates(c.Request.Context(), q.Date, q.Monthly)
	if err != nil {
		h.fail(c, err, "Failed to sync rates")
		return
	}
	c.JSON(http.StatusOK, result)
}
