// Package httpapi exposes the engine over HTTP for the bundled daemon.
//
// Caller identity rides in the X-Caller header. The daemon is meant to sit
// behind a gateway that authenticates callers and stamps the header; the
// handlers only refuse requests that arrive without one.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	streamless "github.com/streamless/streamless"
	"github.com/streamless/streamless/codec"
)

const callerHeader = "X-Caller"

// Funder moves deposited value into engine custody before the ledger credit.
// The engine never credits speculatively, so the funder must complete first.
type Funder func(ctx context.Context, who string, amount uint64) error

// Handler serves engine operations.
type Handler struct {
	engine *streamless.Engine
	fund   Funder
}

// Option configures a Handler.
type Option func(*Handler)

// WithFunder installs the custody funding step run ahead of each deposit.
func WithFunder(f Funder) Option {
	return func(h *Handler) { h.fund = f }
}

// NewHandler creates a handler over an engine.
func NewHandler(engine *streamless.Engine, opts ...Option) *Handler {
	h := &Handler{engine: engine}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// caller extracts the authenticated caller identity, failing the request if
// the header is missing.
func caller(c *gin.Context) (string, bool) {
	who := c.GetHeader(callerHeader)
	if who == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + callerHeader + " header"})
		return "", false
	}
	return who, true
}

// writeError maps engine sentinels onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, streamless.ErrUnauthorized):
		status = http.StatusForbidden
	case streamless.IsNotFound(err):
		status = http.StatusNotFound
	case streamless.IsRejected(err):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ========== Plans ==========

type createPlanRequest struct {
	PlanID        string `json:"plan_id" binding:"required"`
	Amount        uint64 `json:"amount" binding:"required"`
	FrequencyDays uint32 `json:"frequency_days" binding:"required"`
}

// CreatePlan publishes a new plan owned by the caller.
func (h *Handler) CreatePlan(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.engine.CreatePlan(c.Request.Context(), who, req.PlanID, req.Amount, req.FrequencyDays)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan_id": req.PlanID})
}

type updatePlanRequest struct {
	Amount        uint64 `json:"amount" binding:"required"`
	FrequencyDays uint32 `json:"frequency_days" binding:"required"`
	Active        *bool  `json:"active" binding:"required"`
}

// UpdatePlan mutates a plan the caller owns.
func (h *Handler) UpdatePlan(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.engine.UpdatePlan(c.Request.Context(), who, c.Param("id"), req.Amount, req.FrequencyDays, *req.Active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": c.Param("id")})
}

// GetPlan returns a single plan.
func (h *Handler) GetPlan(c *gin.Context) {
	p, err := h.engine.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan_id":        p.ID,
		"creator":        p.Creator,
		"amount":         codec.FormatU64(p.Amount),
		"frequency_days": codec.FormatU32(p.FrequencyDays),
		"active":         p.Active,
	})
}

// ListPlans returns every published plan id, newest first.
func (h *Handler) ListPlans(c *gin.Context) {
	ids, err := h.engine.ListPlans(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_ids": ids})
}

// ListCreatorPlans returns the plan ids a creator has published.
func (h *Handler) ListCreatorPlans(c *gin.Context) {
	ids, err := h.engine.ListPlansBy(c.Request.Context(), c.Param("creator"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_ids": ids})
}

// ========== Deposits ==========

type amountRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

// Deposit credits the caller's deposit balance.
func (h *Handler) Deposit(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.fund != nil {
		if err := h.fund(c.Request.Context(), who, req.Amount); err != nil {
			writeError(c, err)
			return
		}
	}
	if err := h.engine.Deposit(c.Request.Context(), who, req.Amount); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": codec.FormatU64(req.Amount)})
}

// Withdraw returns unspent deposit funds to the caller.
func (h *Handler) Withdraw(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.engine.Withdraw(c.Request.Context(), who, req.Amount); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": codec.FormatU64(req.Amount)})
}

// Balance returns the caller's deposit balance.
func (h *Handler) Balance(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	bal, err := h.engine.BalanceOf(c.Request.Context(), who)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": codec.FormatU64(bal)})
}

// ========== Subscriptions ==========

type subscribeRequest struct {
	PlanID string  `json:"plan_id" binding:"required"`
	Cycles *uint32 `json:"cycles"`
}

// Subscribe enrolls the caller in a plan.
func (h *Handler) Subscribe(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.engine.Subscribe(c.Request.Context(), who, req.PlanID, req.Cycles); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan_id": req.PlanID})
}

// Cancel stops the caller's subscription to a plan.
func (h *Handler) Cancel(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	if err := h.engine.Cancel(c.Request.Context(), who, c.Param("plan_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": c.Param("plan_id")})
}

// GetSubscription returns the caller's subscription to one plan.
func (h *Handler) GetSubscription(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	sub, err := h.engine.GetSubscription(c.Request.Context(), who, c.Param("plan_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscriptionBody(sub))
}

// ListSubscriptions returns every subscription the caller holds.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	subs, err := h.engine.Subscriptions(c.Request.Context(), who)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, len(subs))
	for i, sub := range subs {
		out[i] = subscriptionBody(sub)
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func subscriptionBody(sub *streamless.Subscription) gin.H {
	body := gin.H{
		"plan_id":  sub.PlanID,
		"status":   sub.Status(),
		"next_due": codec.FormatU64(sub.NextDue),
	}
	if sub.RemainingCycles != nil {
		body["remaining_cycles"] = codec.FormatU32(*sub.RemainingCycles)
	}
	return body
}

// ========== Payments ==========

// ListPayments returns the caller's settlement history, newest first.
func (h *Handler) ListPayments(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	records, err := h.engine.PaymentsOf(c.Request.Context(), who)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, len(records))
	for i, rec := range records {
		out[i] = gin.H{
			"payment_id": rec.ID.String(),
			"plan_id":    rec.PlanID,
			"amount":     codec.FormatU64(rec.Amount),
			"time":       codec.FormatU64(rec.Time),
			"outcome":    string(rec.Outcome),
		}
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}
