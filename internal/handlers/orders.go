package handlers

import (
	"errors"
	"net/http"

	"ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListOrders = "failed to load orders"
	errOrderStats = "failed to load stats"
)

// Request DTO for creating and updating orders (full-field replace on update).
type orderRequest struct {
	Content     string  `json:"content" binding:"required"`
	OrderNumber string  `json:"orderNumber" binding:"required"`
	Status      string  `json:"status,omitempty"` // 已下单 | 已完成 | 已结算; defaults to 已下单
	Amount      float64 `json:"amount,omitempty"`
}

// orderError maps service errors onto HTTP responses; anything unexpected is
// logged and collapsed to a generic 500.
func (h *Handler) orderError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrOrderNotFound.Error()})
	case errors.Is(err, service.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "order operation failed", logKey, err, kv...)
	}
}

// @Summary      List own orders
// @Description  Newest created first; only the authenticated user's orders.
// @Tags         orders
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /orders [get]
// @Security     BearerAuth
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.services.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListOrders, "orders_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      orderRequest  true  "Order fields"
// @Success      200   {object}  map[string]interface{}  "data"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /orders [post]
// @Security     BearerAuth
func (h *Handler) createOrder(c *gin.Context) {
	var req orderRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	order, err := h.services.Create(c.Request.Context(), currentUserID(c), service.OrderInput{
		Content:     req.Content,
		OrderNumber: req.OrderNumber,
		Status:      req.Status,
		Amount:      req.Amount,
	})
	if err != nil {
		h.orderError(c, err, "order_create_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  map[string]interface{}  "data"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
// @Security     BearerAuth
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.services.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.orderError(c, err, "order_get_failed", "orderId", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Update order
// @Description  Full-field replace of content, orderNumber, status and amount.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Order id"
// @Param        body  body      orderRequest  true  "Order fields"
// @Success      200   {object}  map[string]interface{}  "data"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /orders/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateOrder(c *gin.Context) {
	var req orderRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	order, err := h.services.Update(c.Request.Context(), currentUserID(c), c.Param("id"), service.OrderInput{
		Content:     req.Content,
		OrderNumber: req.OrderNumber,
		Status:      req.Status,
		Amount:      req.Amount,
	})
	if err != nil {
		h.orderError(c, err, "order_update_failed", "orderId", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Delete order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.services.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.orderError(c, err, "order_delete_failed", "orderId", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

// @Summary      Order stats
// @Description  Counts and amount sums grouped by status for the current user.
// @Tags         orders
// @Produce      json
// @Success      200  {object}  models.OrderStats
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /orders/stats [get]
// @Security     BearerAuth
func (h *Handler) orderStats(c *gin.Context) {
	stats, err := h.services.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errOrderStats, "orders_stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
