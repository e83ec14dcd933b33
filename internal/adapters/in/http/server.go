package http

import (
	"context"
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// CommandHandler is a use case that reports only success or failure.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, command C) error
}

// ResultHandler is a use case that returns a result on success.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// Handlers are the use cases exposed over HTTP. The composition root fills
// every field; tests set only the ones a route needs.
type Handlers struct {
	CreateCarrier        CommandHandler[commands.CreateCarrierCommand]
	DefineStatus         ResultHandler[commands.DefineStatusCommand, kernel.UUID]
	BindRule             CommandHandler[commands.BindRuleCommand]
	RegisterTruck        CommandHandler[commands.RegisterTruckCommand]
	CreateShipment       CommandHandler[commands.CreateShipmentCommand]
	ClaimShipment        CommandHandler[commands.ClaimShipmentCommand]
	ReleaseShipment      CommandHandler[commands.ReleaseShipmentCommand]
	ScheduleDelivery     ResultHandler[commands.ScheduleDeliveryCommand, commands.ScheduleDeliveryResult]
	InitiateDelivery     ResultHandler[commands.InitiateDeliveryCommand, commands.InitiateDeliveryResult]
	CloseDelivery        ResultHandler[commands.CloseDeliveryCommand, commands.CloseDeliveryResult]
	CancelDelivery       CommandHandler[commands.CancelDeliveryCommand]
	UpdateShipmentStatus ResultHandler[commands.UpdateShipmentStatusCommand, services.StatusChange]
	DeliverShipment      ResultHandler[commands.DeliverShipmentCommand, services.StatusChange]
	FailLeg              CommandHandler[commands.FailLegCommand]
	UpdateLegAddresses   CommandHandler[commands.UpdateLegAddressesCommand]
	RecordForm           CommandHandler[commands.RecordFormCommand]
	CreateRating         CommandHandler[commands.CreateRatingCommand]
	UpdateRating         CommandHandler[commands.UpdateRatingCommand]
	DeleteRating         CommandHandler[commands.DeleteRatingCommand]

	GetCarrierRating ResultHandler[queries.GetCarrierRatingQuery, queries.GetCarrierRatingQueryResponse]
	ResolveStatus    ResultHandler[queries.ResolveStatusQuery, queries.ResolveStatusQueryResponse]
	GetDelivery      ResultHandler[queries.GetDeliveryQuery, queries.GetDeliveryQueryResponse]
	GetShipment      ResultHandler[queries.GetShipmentQuery, queries.GetShipmentQueryResponse]
}

// Server translates HTTP requests into commands and queries. Errors are
// returned to echo and rendered by errorHandler.
type Server struct {
	h Handlers
}

// NewServer creates a server over handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// pathUUID binds a simple-style path parameter the way generated servers do.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(raw[:])
}

// pathUUIDs binds several path parameters, in the order named.
func pathUUIDs(c echo.Context, names ...string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, len(names))
	for i, name := range names {
		id, err := pathUUID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func toKernelUUIDs(raw []uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, len(raw))
	for i, id := range raw {
		parsed, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		ids[i] = parsed
	}
	return ids, nil
}

func toRawUUIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		raw[i] = id.Bytes()
	}
	return raw
}

// CreateCarrier handles POST /api/v1/carriers.
func (s *Server) CreateCarrier(c echo.Context) error {
	var req NewCarrier
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewCreateCarrierCommand(kernel.NewUUID(), req.Name)
	if err != nil {
		return err
	}
	if err = s.h.CreateCarrier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: cmd.CarrierID().Bytes()})
}

// DefineStatus handles POST /api/v1/carriers/{carrierId}/statuses.
func (s *Server) DefineStatus(c echo.Context) error {
	carrierID, err := pathUUID(c, "carrierId")
	if err != nil {
		return err
	}
	var req NewStatus
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewDefineStatusCommand(carrierID, req.Name, req.LockedForCustomers, req.Closed)
	if err != nil {
		return err
	}
	statusID, err := s.h.DefineStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: statusID.Bytes()})
}

// GetRule handles GET /api/v1/carriers/{carrierId}/rules/{event}.
func (s *Server) GetRule(c echo.Context) error {
	carrierID, err := pathUUID(c, "carrierId")
	if err != nil {
		return err
	}
	query, err := queries.NewResolveStatusQuery(carrierID, c.Param("event"))
	if err != nil {
		return err
	}
	rule, err := s.h.ResolveStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := Rule{CarrierID: rule.CarrierID.Bytes(), Event: rule.Event.String()}
	if rule.StatusID != nil {
		id := rule.StatusID.Bytes()
		response.StatusID = &id
	}
	return c.JSON(http.StatusOK, response)
}

// BindRule handles PUT /api/v1/carriers/{carrierId}/rules/{event}.
func (s *Server) BindRule(c echo.Context) error {
	carrierID, err := pathUUID(c, "carrierId")
	if err != nil {
		return err
	}
	event, err := carrier.ParseEvent(c.Param("event"))
	if err != nil {
		return err
	}
	var req RuleBinding
	if err = c.Bind(&req); err != nil {
		return err
	}

	var statusID *kernel.UUID
	if req.StatusID != nil {
		id, idErr := kernel.UUIDFromBytes(req.StatusID[:])
		if idErr != nil {
			return idErr
		}
		statusID = &id
	}

	cmd, err := commands.NewBindRuleCommand(carrierID, event, statusID)
	if err != nil {
		return err
	}
	if err = s.h.BindRule.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCarrierRating handles GET /api/v1/carriers/{carrierId}/rating.
func (s *Server) GetCarrierRating(c echo.Context) error {
	carrierID, err := pathUUID(c, "carrierId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetCarrierRatingQuery(carrierID)
	if err != nil {
		return err
	}
	rating, err := s.h.GetCarrierRating.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CarrierRating{
		CarrierID: rating.CarrierID.Bytes(),
		Name:      rating.Name,
		Average:   rating.Average,
		Count:     rating.Count,
	})
}

// RegisterTruck handles POST /api/v1/carriers/{carrierId}/trucks.
func (s *Server) RegisterTruck(c echo.Context) error {
	carrierID, err := pathUUID(c, "carrierId")
	if err != nil {
		return err
	}
	var req NewTruck
	if err = c.Bind(&req); err != nil {
		return err
	}
	truckID := kernel.NewUUID()
	cmd, err := commands.NewRegisterTruckCommand(truckID, carrierID, req.Plate, req.Mileage, req.MaxWeightKg, req.MaxVolumeM3)
	if err != nil {
		return err
	}
	if err = s.h.RegisterTruck.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: truckID.Bytes()})
}

// ScheduleDelivery handles POST /api/v1/carriers/{carrierId}/trucks/{truckId}/schedule.
func (s *Server) ScheduleDelivery(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "truckId")
	if err != nil {
		return err
	}
	var req ScheduleRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	shipmentIDs, err := toKernelUUIDs(req.ShipmentIDs)
	if err != nil {
		return err
	}

	cmd, err := commands.NewScheduleDeliveryCommand(ids[0], ids[1], shipmentIDs, req.DriverName)
	if err != nil {
		return err
	}
	result, err := s.h.ScheduleDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ScheduleResult{
		DeliveryID: result.DeliveryID.Bytes(),
		Created:    result.Created,
		Loaded:     toRawUUIDs(result.Loaded),
	})
}

// InitiateDelivery handles POST /api/v1/carriers/{carrierId}/trucks/{truckId}/initiate.
// Shipments whose dispatched status could not be applied are listed under
// failures with the error message; the response is still 200.
func (s *Server) InitiateDelivery(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "truckId")
	if err != nil {
		return err
	}
	var req InitiateRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewInitiateDeliveryCommand(ids[0], ids[1], req.DriverName)
	if err != nil {
		return err
	}
	result, err := s.h.InitiateDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	failures := make([]ShipmentFailure, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = ShipmentFailure{ShipmentID: f.ShipmentID.Bytes(), Message: f.Err.Error()}
	}
	return c.JSON(http.StatusOK, InitiateResult{
		DeliveryID: result.DeliveryID.Bytes(),
		Dispatched: toRawUUIDs(result.Dispatched),
		Failures:   failures,
	})
}

// GetDelivery handles GET /api/v1/carriers/{carrierId}/deliveries/{deliveryId}.
func (s *Server) GetDelivery(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "deliveryId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetDeliveryQuery(ids[0], ids[1])
	if err != nil {
		return err
	}
	d, err := s.h.GetDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDelivery(d))
}

// CloseDelivery handles POST /api/v1/carriers/{carrierId}/deliveries/{deliveryId}/close.
// An odometer that does not exceed the truck's mileage is a 422; open legs
// are a 409.
func (s *Server) CloseDelivery(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "deliveryId")
	if err != nil {
		return err
	}
	var req CloseRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCloseDeliveryCommand(ids[0], ids[1], req.Odometer)
	if err != nil {
		return err
	}
	result, err := s.h.CloseDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CloseResult{Mileage: result.Mileage, MaintenanceDue: result.MaintenanceDue})
}

// CancelDelivery handles POST /api/v1/carriers/{carrierId}/deliveries/{deliveryId}/cancel.
func (s *Server) CancelDelivery(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "deliveryId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelDeliveryCommand(ids[0], ids[1])
	if err != nil {
		return err
	}
	if err = s.h.CancelDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateShipment handles POST /api/v1/shipments.
func (s *Server) CreateShipment(c echo.Context) error {
	var req NewShipment
	if err := c.Bind(&req); err != nil {
		return err
	}
	shipmentID := kernel.NewUUID()
	cmd, err := commands.NewCreateShipmentCommand(shipmentID, req.WeightKg, req.VolumeM3,
		req.Sender.Name, req.Sender.Address, req.Receiver.Name, req.Receiver.Address, req.DeliverBy)
	if err != nil {
		return err
	}
	if err = s.h.CreateShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: shipmentID.Bytes()})
}

// GetShipment handles GET /api/v1/shipments/{shipmentId}.
func (s *Server) GetShipment(c echo.Context) error {
	shipmentID, err := pathUUID(c, "shipmentId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetShipmentQuery(shipmentID)
	if err != nil {
		return err
	}
	shipment, err := s.h.GetShipment.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipment(shipment))
}

// ClaimShipment handles POST /api/v1/carriers/{carrierId}/shipments/{shipmentId}/claim.
func (s *Server) ClaimShipment(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "shipmentId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewClaimShipmentCommand(ids[0], ids[1])
	if err != nil {
		return err
	}
	if err = s.h.ClaimShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReleaseShipment handles POST /api/v1/carriers/{carrierId}/shipments/{shipmentId}/release.
func (s *Server) ReleaseShipment(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "shipmentId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewReleaseShipmentCommand(ids[0], ids[1])
	if err != nil {
		return err
	}
	if err = s.h.ReleaseShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateShipmentStatus handles PUT /api/v1/carriers/{carrierId}/shipments/{shipmentId}/status.
func (s *Server) UpdateShipmentStatus(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "shipmentId")
	if err != nil {
		return err
	}
	var req StatusUpdate
	if err = c.Bind(&req); err != nil {
		return err
	}
	statusID, err := kernel.UUIDFromBytes(req.StatusID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateShipmentStatusCommand(ids[0], ids[1], statusID)
	if err != nil {
		return err
	}
	change, err := s.h.UpdateShipmentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusChange(change))
}

// DeliverShipment handles POST /api/v1/carriers/{carrierId}/shipments/{shipmentId}/deliver.
// Without a delivered rule the response reports changed=false.
func (s *Server) DeliverShipment(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "shipmentId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeliverShipmentCommand(ids[0], ids[1])
	if err != nil {
		return err
	}
	change, err := s.h.DeliverShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusChange(change))
}

// FailLeg handles POST /api/v1/carriers/{carrierId}/legs/{legId}/fail.
func (s *Server) FailLeg(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "legId")
	if err != nil {
		return err
	}
	var req FailRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewFailLegCommand(ids[0], ids[1], req.Reason)
	if err != nil {
		return err
	}
	if err = s.h.FailLeg.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateLegAddresses handles PUT /api/v1/carriers/{carrierId}/legs/{legId}/addresses.
func (s *Server) UpdateLegAddresses(c echo.Context) error {
	ids, err := pathUUIDs(c, "carrierId", "legId")
	if err != nil {
		return err
	}
	var req LegAddresses
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateLegAddressesCommand(ids[0], ids[1], req.Sender, req.Receiver)
	if err != nil {
		return err
	}
	if err = s.h.UpdateLegAddresses.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordTruckForm handles POST /api/v1/trucks/{truckId}/forms.
func (s *Server) RecordTruckForm(c echo.Context) error {
	truckID, err := pathUUID(c, "truckId")
	if err != nil {
		return err
	}
	return s.recordForm(c, form.TruckSubject{TruckID: truckID})
}

// RecordDeliveryForm handles POST /api/v1/deliveries/{deliveryId}/forms.
func (s *Server) RecordDeliveryForm(c echo.Context) error {
	deliveryID, err := pathUUID(c, "deliveryId")
	if err != nil {
		return err
	}
	return s.recordForm(c, form.DeliverySubject{DeliveryID: deliveryID})
}

func (s *Server) recordForm(c echo.Context, subject form.Subject) error {
	var req NewForm
	if err := c.Bind(&req); err != nil {
		return err
	}
	formID := kernel.NewUUID()
	cmd, err := commands.NewRecordFormCommand(formID, form.Kind(req.Kind), subject, req.Mileage, req.Notes)
	if err != nil {
		return err
	}
	if err = s.h.RecordForm.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: formID.Bytes()})
}

// CreateRating handles POST /api/v1/legs/{legId}/rating. The rating id is
// generated here and returned in the 201 body.
func (s *Server) CreateRating(c echo.Context) error {
	legID, err := pathUUID(c, "legId")
	if err != nil {
		return err
	}
	var req NewRating
	if err = c.Bind(&req); err != nil {
		return err
	}
	ratingID := kernel.NewUUID()
	cmd, err := commands.NewCreateRatingCommand(ratingID, legID, req.Stars, req.Comment)
	if err != nil {
		return err
	}
	if err = s.h.CreateRating.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: ratingID.Bytes()})
}

// UpdateRating handles PUT /api/v1/ratings/{ratingId}.
func (s *Server) UpdateRating(c echo.Context) error {
	ratingID, err := pathUUID(c, "ratingId")
	if err != nil {
		return err
	}
	var req RatingUpdate
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateRatingCommand(ratingID, req.Stars, req.Comment)
	if err != nil {
		return err
	}
	if err = s.h.UpdateRating.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteRating handles DELETE /api/v1/ratings/{ratingId}.
func (s *Server) DeleteRating(c echo.Context) error {
	ratingID, err := pathUUID(c, "ratingId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteRatingCommand(ratingID)
	if err != nil {
		return err
	}
	if err = s.h.DeleteRating.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
