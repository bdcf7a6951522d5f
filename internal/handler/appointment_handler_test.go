package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsched/pawsched-api/internal/dto"
	"github.com/pawsched/pawsched-api/internal/middleware"
	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
)

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func testContext(method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		payload, _ = json.Marshal(v)
	}
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

type fakeAppointmentSrv struct {
	lastActor  models.Actor
	lastID     string
	lastCreate dto.CreateAppointmentRequest
	lastStatus models.AppointmentStatus
	appt       *models.Appointment
	list       []models.Appointment
	err        error
}

func (f *fakeAppointmentSrv) Create(_ context.Context, actor models.Actor, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	f.lastActor = actor
	f.lastCreate = req
	return f.appt, f.err
}

func (f *fakeAppointmentSrv) Get(_ context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	f.lastActor, f.lastID = actor, id
	return f.appt, f.err
}

func (f *fakeAppointmentSrv) ListByPet(_ context.Context, actor models.Actor, petID string) ([]models.Appointment, error) {
	f.lastActor, f.lastID = actor, petID
	return f.list, f.err
}

func (f *fakeAppointmentSrv) UpdateStatus(_ context.Context, actor models.Actor, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	f.lastActor, f.lastID, f.lastStatus = actor, id, status
	return f.appt, f.err
}

func (f *fakeAppointmentSrv) Reschedule(_ context.Context, actor models.Actor, id string, _ time.Time) (*models.Appointment, error) {
	f.lastActor, f.lastID = actor, id
	return f.appt, f.err
}

var ownerClaims = &models.JWTClaims{UserID: "owner-1", Role: models.RoleOwner}

func TestAppointmentHandlerCreatePassesActor(t *testing.T) {
	srv := &fakeAppointmentSrv{appt: &models.Appointment{ID: "appt-1", Status: models.AppointmentPending}}
	h := NewAppointmentHandler(srv)

	c, rec := testContext(http.MethodPost, "/appointments", map[string]interface{}{
		"pet_id":           "pet-1",
		"service_id":       "svc-1",
		"appointment_date": "2030-01-02T10:00:00Z",
		"package_type":     "premium",
	}, ownerClaims)

	h.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.Actor{UserID: "owner-1", Role: models.RoleOwner}, srv.lastActor)
	assert.Equal(t, "pet-1", srv.lastCreate.PetID)
	require.NotNil(t, srv.lastCreate.PackageType)
	assert.Equal(t, models.PackagePremium, *srv.lastCreate.PackageType)

	env := decodeEnvelope(t, rec)
	assert.Nil(t, env.Error)
	assert.Contains(t, string(env.Data), `"status":"pending"`)
}

func TestAppointmentHandlerCreateRejectsMalformedBody(t *testing.T) {
	srv := &fakeAppointmentSrv{}
	h := NewAppointmentHandler(srv)

	c, rec := testContext(http.MethodPost, "/appointments", "{not json", ownerClaims)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
	assert.Empty(t, srv.lastActor.UserID)
}

func TestAppointmentHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"too late", appErrors.ErrTooLate, http.StatusConflict, "TOO_LATE"},
		{"past date", appErrors.ErrPastDate, http.StatusBadRequest, "PAST_DATE"},
		{"forbidden", appErrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "DEPENDENCY_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAppointmentHandler(&fakeAppointmentSrv{err: tc.err})
			c, rec := testContext(http.MethodPatch, "/appointments/appt-1/reschedule", map[string]string{
				"appointment_date": "2030-01-02T10:00:00Z",
			}, ownerClaims)
			c.Params = gin.Params{{Key: "id", Value: "appt-1"}}

			h.Reschedule(c)

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestAppointmentHandlerUpdateStatus(t *testing.T) {
	srv := &fakeAppointmentSrv{appt: &models.Appointment{ID: "appt-1", Status: models.AppointmentConfirmed}}
	h := NewAppointmentHandler(srv)
	provider := &models.JWTClaims{UserID: "provider-1", Role: models.RoleProvider}

	c, rec := testContext(http.MethodPatch, "/appointments/appt-1/status", map[string]string{"status": "confirmed"}, provider)
	c.Params = gin.Params{{Key: "id", Value: "appt-1"}}
	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "appt-1", srv.lastID)
	assert.Equal(t, models.AppointmentConfirmed, srv.lastStatus)
	assert.Equal(t, models.RoleProvider, srv.lastActor.Role)
}

func TestAppointmentHandlerListByPetReturnsEmptyArray(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentSrv{})
	c, rec := testContext(http.MethodGet, "/pets/pet-1/appointments", nil, ownerClaims)
	c.Params = gin.Params{{Key: "id", Value: "pet-1"}}

	h.ListByPet(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}
