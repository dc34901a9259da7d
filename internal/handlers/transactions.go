package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budget_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid     = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid       = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errCategoryInvalid = "invalid 'category'; expected a numeric id"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

type transactionRequest struct {
	CategoryID  int    `json:"category_id" form:"category_id" binding:"required"`
	Amount      string `json:"amount" form:"amount" binding:"required"` // signed decimal, e.g. "-42.50"
	OccurredOn  string `json:"occurred_on" form:"occurred_on"`          // RFC3339 or YYYY-MM-DD; empty = now
	Description string `json:"description" form:"description"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}

// parseTxFilter reads from/to/category query params. Date-only 'to' is
// treated as end-of-day inclusive.
func parseTxFilter(c *gin.Context) (service.TxFilter, bool) {
	var f service.TxFilter

	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return f, false
	}
	if qs := c.Query("category"); qs != "" {
		id, err := strconv.Atoi(qs)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errCategoryInvalid})
			return f, false
		}
		f.CategoryID = id
	}
	return f, true
}

func (r transactionRequest) params() (service.TxParams, error) {
	p := service.TxParams{
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: strings.TrimSpace(r.Description),
	}
	if s := strings.TrimSpace(r.OccurredOn); s != "" {
		t, err := parseQueryTime(s)
		if err != nil {
			return p, err
		}
		p.OccurredOn = t
	}
	return p, nil
}

// @Summary      List transactions with aggregate totals
// @Description  Newest first. Filters: from/to (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'; date-only 'to' is end-of-day inclusive) and category id.
// @Tags         transactions
// @Produce      json
// @Param        from      query  string  false  "Start of range"  example(2025-08-01)
// @Param        to        query  string  false  "End of range"    example(2025-08-31)
// @Param        category  query  int     false  "Category ID"
// @Success      200  {object}  map[string]interface{}  "count, transactions, totals"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/transactions [get]
// @Security     BearerAuth
func (h *Handler) listTransactions(c *gin.Context) {
	f, ok := parseTxFilter(c)
	if !ok {
		return
	}

	userID := currentUserID(c)
	transactions, totals, err := h.services.Transactions.List(c.Request.Context(), userID, f)
	if err != nil {
		h.respondError(c, err, "transactions_list_failed", "userId", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(transactions),
		"transactions": transactions,
		"totals":       totals,
	})
}

// @Summary      Record a transaction
// @Description  Amount is a signed decimal string: income positive, expense negative.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body  transactionRequest  true  "Transaction"
// @Success      200  {object}  map[string]int  "id"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/transactions [post]
// @Security     BearerAuth
func (h *Handler) createTransaction(c *gin.Context) {
	var input transactionRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	p, err := input.params()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occurred_on: " + err.Error()})
		return
	}

	userID := currentUserID(c)
	id, err := h.services.Transactions.Create(c.Request.Context(), userID, p)
	if err != nil {
		h.respondError(c, err, "transaction_create_failed", "userId", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Edit a transaction
// @Description  Full replacement: every field is rewritten from the body. An omitted occurred_on resets to the current time, same as on create.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "Transaction ID"
// @Param        body  body  transactionRequest  true  "New fields"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/transactions/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input transactionRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	p, err := input.params()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occurred_on: " + err.Error()})
		return
	}

	userID := currentUserID(c)
	if err := h.services.Transactions.Update(c.Request.Context(), userID, id, p); err != nil {
		h.respondError(c, err, "transaction_update_failed", "userId", userID, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Param        id  path  int  true  "Transaction ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/transactions/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	userID := currentUserID(c)
	if err := h.services.Transactions.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err, "transaction_delete_failed", "userId", userID, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
