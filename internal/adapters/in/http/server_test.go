package http_test

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	freighthttp "freight/internal/adapters/in/http"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type commandFunc[C any] func(ctx context.Context, command C) error

func (f commandFunc[C]) Handle(ctx context.Context, command C) error {
	return f(ctx, command)
}

type resultFunc[C, R any] func(ctx context.Context, command C) (R, error)

func (f resultFunc[C, R]) Handle(ctx context.Context, command C) (R, error) {
	return f(ctx, command)
}

func newRouter(t *testing.T, handlers freighthttp.Handlers) *echo.Echo {
	t.Helper()
	e, err := freighthttp.NewRouter(context.Background(), freighthttp.NewServer(handlers), zap.NewNop())
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) freighthttp.Error {
	t.Helper()
	var body freighthttp.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{})

	rec := do(e, nethttp.MethodGet, "/health", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{})

	rec := do(e, nethttp.MethodGet, "/metrics", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestScheduleDelivery_PassesIdsAndReturnsResult(t *testing.T) {
	carrierID, truckID, shipmentID, deliveryID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	var received commands.ScheduleDeliveryCommand
	e := newRouter(t, freighthttp.Handlers{
		ScheduleDelivery: resultFunc[commands.ScheduleDeliveryCommand, commands.ScheduleDeliveryResult](
			func(_ context.Context, cmd commands.ScheduleDeliveryCommand) (commands.ScheduleDeliveryResult, error) {
				received = cmd
				return commands.ScheduleDeliveryResult{
					DeliveryID: deliveryID,
					Created:    true,
					Loaded:     []kernel.UUID{shipmentID},
				}, nil
			}),
	})

	rec := do(e, nethttp.MethodPost,
		"/api/v1/carriers/"+carrierID.String()+"/trucks/"+truckID.String()+"/schedule",
		`{"shipmentIds":["`+shipmentID.String()+`","`+shipmentID.String()+`"],"driverName":"Ann"}`)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, carrierID.IsEqual(received.CarrierID()))
	assert.True(t, truckID.IsEqual(received.TruckID()))
	assert.Len(t, received.ShipmentIDs(), 1)

	var body freighthttp.ScheduleResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, deliveryID.Bytes(), body.DeliveryID)
	assert.True(t, body.Created)
	assert.Equal(t, shipmentID.Bytes(), body.Loaded[0])
}

func TestScheduleDelivery_RejectsRequestOutsideSchema(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{})

	rec := do(e, nethttp.MethodPost,
		"/api/v1/carriers/"+kernel.NewUUID().String()+"/trucks/"+kernel.NewUUID().String()+"/schedule",
		`{"shipmentIds":[]}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestBindRule_NullStatusUnbinds(t *testing.T) {
	carrierID := kernel.NewUUID()
	called := false

	e := newRouter(t, freighthttp.Handlers{
		BindRule: commandFunc[commands.BindRuleCommand](func(_ context.Context, cmd commands.BindRuleCommand) error {
			called = true
			assert.Nil(t, cmd.StatusID())
			assert.Equal(t, "delivered", cmd.Event().String())
			return nil
		}),
	})

	rec := do(e, nethttp.MethodPut, "/api/v1/carriers/"+carrierID.String()+"/rules/delivered", `{"statusId":null}`)

	assert.Equal(t, nethttp.StatusNoContent, rec.Code, rec.Body.String())
	assert.True(t, called)
}

func TestReleaseShipment_OpenLegIsConflict(t *testing.T) {
	carrierID, shipmentID := kernel.NewUUID(), kernel.NewUUID()
	var received commands.ReleaseShipmentCommand
	e := newRouter(t, freighthttp.Handlers{
		ReleaseShipment: commandFunc[commands.ReleaseShipmentCommand](func(_ context.Context, cmd commands.ReleaseShipmentCommand) error {
			received = cmd
			return commands.ErrShipmentHasOpenLeg
		}),
	})

	rec := do(e, nethttp.MethodPost,
		"/api/v1/carriers/"+carrierID.String()+"/shipments/"+shipmentID.String()+"/release", "")

	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.True(t, carrierID.IsEqual(received.CarrierID()))
	assert.True(t, shipmentID.IsEqual(received.ShipmentID()))
}

func TestGetRule_UnknownEventIsUnprocessable(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{})

	rec := do(e, nethttp.MethodGet, "/api/v1/carriers/"+kernel.NewUUID().String()+"/rules/teleported", "")

	assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
}

func TestErrorsAreMappedToStatusCodes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", errs.NewObjectNotFoundError("delivery", "x"), nethttp.StatusNotFound, ""},
		{"precondition", errs.NewPreconditionFailedError("delivery still has open shipments"), nethttp.StatusConflict, ""},
		{"validation", errs.NewValueIsInvalidError("odometer"), nethttp.StatusUnprocessableEntity, ""},
		{"internal", errors.New("connection reset"), nethttp.StatusInternalServerError, "operation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newRouter(t, freighthttp.Handlers{
				CancelDelivery: commandFunc[commands.CancelDeliveryCommand](func(context.Context, commands.CancelDeliveryCommand) error {
					return tc.err
				}),
			})

			rec := do(e, nethttp.MethodPost,
				"/api/v1/carriers/"+kernel.NewUUID().String()+"/deliveries/"+kernel.NewUUID().String()+"/cancel", "")

			require.Equal(t, tc.code, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.code, body.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, body.Message)
			}
		})
	}
}

func TestPanicIsRecovered(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{
		GetCarrierRating: resultFunc[queries.GetCarrierRatingQuery, queries.GetCarrierRatingQueryResponse](
			func(context.Context, queries.GetCarrierRatingQuery) (queries.GetCarrierRatingQueryResponse, error) {
				panic("boom")
			}),
	})

	rec := do(e, nethttp.MethodGet, "/api/v1/carriers/"+kernel.NewUUID().String()+"/rating", "")

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "operation failed", decodeError(t, rec).Message)
}

func TestUpdateRating_MissingCommentKeepsCurrent(t *testing.T) {
	ratingID := kernel.NewUUID()
	var received commands.UpdateRatingCommand

	e := newRouter(t, freighthttp.Handlers{
		UpdateRating: commandFunc[commands.UpdateRatingCommand](func(_ context.Context, cmd commands.UpdateRatingCommand) error {
			received = cmd
			return nil
		}),
	})

	rec := do(e, nethttp.MethodPut, "/api/v1/ratings/"+ratingID.String(), `{"stars":4}`)

	require.Equal(t, nethttp.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, 4, received.Stars())
	assert.Nil(t, received.Comment())
}

func TestUpdateRating_StarsOutOfRangeRejected(t *testing.T) {
	e := newRouter(t, freighthttp.Handlers{})

	rec := do(e, nethttp.MethodPut, "/api/v1/ratings/"+kernel.NewUUID().String(), `{"stars":9}`)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}
