package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/repo"
	"github.com/avkozlov/library-backend/internal/service"
	"github.com/avkozlov/library-backend/internal/transport"
	"github.com/avkozlov/library-backend/internal/util"
	"github.com/avkozlov/library-backend/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_order_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrInstanceUnavailable):
			l.Warn("create_order_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "one or more instances are not available for loan")
		case errors.Is(err, repo.ErrLoanExists):
			l.Warn("create_order_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("create_order_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "reader or book instance not found")
		default:
			l.Error("create_order_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot create order")
		}
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	order, err := h.Svc.GetOrderByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_order_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetAllOrders(ctx, offset, limit)
	if err != nil {
		l.Error("get_orders_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, offset, total))
}

func (h *OrderHTTP) CloseOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.close_order")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	var req transport.OrderCloseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("close_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CloseOrder(ctx, uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("close_order_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("close_order_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("close_order_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot close order")
		}
	}

	l.Info("close_order_success", "order_id", id, "total_cost", order.TotalCost)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.DeleteOrder(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_order_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("delete_order_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete order")
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
