package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/offerlab/preventivo/internal/currency"
	quotedomain "github.com/offerlab/preventivo/internal/quote/domain"
)

func (s *Server) CreateQuote(c *gin.Context) {
	var req quotedomain.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)

	resp, err := s.quoteSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.QuoteCreated()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotes(c *gin.Context) {
	var query quotedomain.ListQuotesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.Customer = strings.TrimSpace(query.Customer)

	resp, err := s.quoteSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	resp, err := s.quoteSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateQuote(c *gin.Context) {
	var req quotedomain.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuote(c *gin.Context) {
	if err := s.quoteSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AddQuoteItem(c *gin.Context) {
	var req quotedomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.AddItem(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.QuoteItemAdded()
	s.metrics.ObserveQuoteAmount(resp.Currency, resp.GrandTotal)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveQuoteItem(c *gin.Context) {
	resp, err := s.quoteSvc.RemoveItem(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("itemId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecalculateQuote(c *gin.Context) {
	resp, err := s.quoteSvc.Recalculate(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ObserveQuoteAmount(resp.Currency, resp.GrandTotal)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type quoteTotalsResponse struct {
	SubtotalOneTime       float64 `json:"subtotal_one_time"`
	DiscountAmount        float64 `json:"discount_amount"`
	TotalOneTime          float64 `json:"total_one_time"`
	TotalRecurringMonthly float64 `json:"total_recurring_monthly"`
	TotalRecurringYearly  float64 `json:"total_recurring_yearly"`
	TaxAmount             float64 `json:"tax_amount"`
	GrandTotal            float64 `json:"grand_total"`
	FinalTotal            float64 `json:"final_total"`

	Formatted map[string]string `json:"formatted,omitempty"`
}

// GetQuoteTotals returns the totals snapshot with amounts rendered in the
// configured locale for customer-facing documents.
func (s *Server) GetQuoteTotals(c *gin.Context) {
	quote, err := s.quoteSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := quoteTotalsResponse{
		SubtotalOneTime:       quote.SubtotalOneTime,
		DiscountAmount:        quote.DiscountAmount,
		TotalOneTime:          quote.TotalOneTime,
		TotalRecurringMonthly: quote.TotalRecurringMonthly,
		TotalRecurringYearly:  quote.TotalRecurringYearly,
		TaxAmount:             quote.TaxAmount,
		GrandTotal:            quote.GrandTotal,
		FinalTotal:            quote.FinalTotal,
	}

	defaults := s.quoteCfg.Current()
	if formatter, fmtErr := currency.NewFormatter(defaults.Locale, quote.Currency); fmtErr == nil {
		resp.Formatted = map[string]string{
			"total_one_time":          formatter.Format(quote.TotalOneTime),
			"total_recurring_monthly": formatter.Format(quote.TotalRecurringMonthly),
			"total_recurring_yearly":  formatter.Format(quote.TotalRecurringYearly),
			"tax_amount":              formatter.Format(quote.TaxAmount),
			"grand_total":             formatter.Format(quote.GrandTotal),
			"final_total":             formatter.Format(quote.FinalTotal),
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isQuoteValidationError(err error) bool {
	switch err {
	case quotedomain.ErrInvalidID,
		quotedomain.ErrInvalidCustomer,
		quotedomain.ErrInvalidStatus,
		quotedomain.ErrInvalidDiscount,
		quotedomain.ErrInvalidTax,
		quotedomain.ErrInvalidQuantity,
		quotedomain.ErrInvalidModifierType:
		return true
	default:
		return false
	}
}
