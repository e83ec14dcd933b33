// Package http exposes the freight use cases over a JSON API described by
// the embedded OpenAPI document.
package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// NewRouter wires middleware, operational endpoints and the API routes.
func NewRouter(ctx context.Context, server *Server, logger *zap.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}
	registerSwaggerDoc()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validate)

	api.POST("/carriers", server.CreateCarrier)
	api.POST("/carriers/:carrierId/statuses", server.DefineStatus)
	api.GET("/carriers/:carrierId/rules/:event", server.GetRule)
	api.PUT("/carriers/:carrierId/rules/:event", server.BindRule)
	api.GET("/carriers/:carrierId/rating", server.GetCarrierRating)

	api.POST("/carriers/:carrierId/trucks", server.RegisterTruck)
	api.POST("/carriers/:carrierId/trucks/:truckId/schedule", server.ScheduleDelivery)
	api.POST("/carriers/:carrierId/trucks/:truckId/initiate", server.InitiateDelivery)
	api.GET("/carriers/:carrierId/deliveries/:deliveryId", server.GetDelivery)
	api.POST("/carriers/:carrierId/deliveries/:deliveryId/close", server.CloseDelivery)
	api.POST("/carriers/:carrierId/deliveries/:deliveryId/cancel", server.CancelDelivery)

	api.POST("/carriers/:carrierId/shipments/:shipmentId/claim", server.ClaimShipment)
	api.POST("/carriers/:carrierId/shipments/:shipmentId/release", server.ReleaseShipment)
	api.PUT("/carriers/:carrierId/shipments/:shipmentId/status", server.UpdateShipmentStatus)
	api.POST("/carriers/:carrierId/shipments/:shipmentId/deliver", server.DeliverShipment)
	api.POST("/carriers/:carrierId/legs/:legId/fail", server.FailLeg)
	api.PUT("/carriers/:carrierId/legs/:legId/addresses", server.UpdateLegAddresses)

	api.POST("/shipments", server.CreateShipment)
	api.GET("/shipments/:shipmentId", server.GetShipment)
	api.POST("/trucks/:truckId/forms", server.RecordTruckForm)
	api.POST("/deliveries/:deliveryId/forms", server.RecordDeliveryForm)

	api.POST("/legs/:legId/rating", server.CreateRating)
	api.PUT("/ratings/:ratingId", server.UpdateRating)
	api.DELETE("/ratings/:ratingId", server.DeleteRating)

	return e, nil
}
