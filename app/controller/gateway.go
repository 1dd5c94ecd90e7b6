package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/soliddigital/mpesa-stk-gateway/app/factory"
	"github.com/soliddigital/mpesa-stk-gateway/app/mapper"
	"github.com/soliddigital/mpesa-stk-gateway/app/metrics"
	"github.com/soliddigital/mpesa-stk-gateway/app/service"
	"github.com/soliddigital/mpesa-stk-gateway/app/types"
	"github.com/soliddigital/mpesa-stk-gateway/config"
)

type GatewayController struct {
	gatewayService *service.GatewayService
	mpesaCfg       config.MpesaConfig
	logger         logrus.FieldLogger
}

func NewGatewayController(gatewayService *service.GatewayService, mpesaCfg config.MpesaConfig) *GatewayController {
	return &GatewayController{
		gatewayService: gatewayService,
		mpesaCfg:       mpesaCfg,
		logger:         factory.NewModuleLogger("gateway-controller"),
	}
}

func (c *GatewayController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *GatewayController) GatewayInfo(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.GatewayInfoResponse{
		Enabled:     c.mpesaCfg.Enabled,
		Title:       c.mpesaCfg.Title,
		Description: c.mpesaCfg.Description,
	})
}

func (c *GatewayController) InitiatePayment(ctx echo.Context) error {
	req, err := types.NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	output, err := c.gatewayService.InitiatePayment(ctx.Request().Context(), req.OrderID, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPhoneRequired):
			return c.writeFailure(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrGatewayDisabled):
			return c.writeError(ctx, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrPushFailed):
			return c.writeFailure(ctx, http.StatusBadGateway, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.InitiatePaymentResponse{
		Result:          "success",
		CustomerMessage: output.CustomerMessage,
	})
}

func (c *GatewayController) GetOrderStatus(ctx echo.Context) error {
	id, err := types.NewOrderStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}

	order, notes, err := c.gatewayService.GetOrder(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order status failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.OrderToStatusResponse(order, notes))
}

// HandleStkCallback accepts the provider's asynchronous payment decision.
// Only a structurally invalid payload is rejected; every other outcome,
// including an unmatched order, is acknowledged as accepted so the provider
// never re-delivers on our account.
func (c *GatewayController) HandleStkCallback(ctx echo.Context) error {
	metrics.CallbacksReceivedTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.CallbackProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	callback, err := types.NewStkCallbackFromContext(ctx)
	if err != nil {
		metrics.CallbacksInvalidTotal.Inc()
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Invalid callback payload structure")
		return ctx.JSON(http.StatusBadRequest, &types.CallbackAck{ResultCode: 1, ResultDesc: "Invalid Payload"})
	}

	if err := c.gatewayService.HandleStkCallback(ctx.Request().Context(), callback); err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Callback processing failed")
	}

	return ctx.JSON(http.StatusOK, &types.CallbackAck{ResultCode: 0, ResultDesc: "Acknowledged successfully"})
}

func (c *GatewayController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

func (c *GatewayController) writeFailure(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.InitiatePaymentResponse{Result: "failure", CustomerMessage: message})
}
