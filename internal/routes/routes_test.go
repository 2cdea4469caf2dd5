package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/config"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/testutil"
)

const secret = "routes-test-secret"

type api struct {
	t *testing.T
	r *gin.Engine
}

func (a api) token(userID, shopID uint, role string) string {
	a.t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          userID,
		"barbershopId": shopID,
		"role":         role,
	}).SignedString([]byte(secret))
	require.NoError(a.t, err)
	return tok
}

func (a api) do(method, path, token string, body any, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.r.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestBookingFlowOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	shop := testutil.Barbershop(t, db, "UTC")
	barber := testutil.Staff(t, db, shop, models.RoleBarber)
	client := testutil.Client(t, db, shop)
	service := testutil.Service(t, db, shop)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:  db,
		SQL: sqlDB,
		Config: &config.Config{
			JWTSecret:      secret,
			AllowedOrigins: []string{"http://localhost:3000"},
			Schedule:       config.ScheduleConfig{MaxTemplateRangeDays: 90},
		},
		Log:     zap.NewNop(),
		Metrics: metrics.New(),
		Policy:  schedule.DefaultPolicy(),
		Clock:   testutil.FixedClock(time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)),
	})
	a := api{t: t, r: r}

	barberTok := a.token(barber.ID, shop.ID, "barber")
	clientTok := a.token(client.ID, shop.ID, "client")
	barberQ := "barberoId=" + strconv.FormatUint(uint64(barber.ID), 10)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil, nil))
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/ready", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/disponibilidad?"+barberQ+"&fecha=2025-03-10", "", nil, nil))

	// Unconfigured barber: default hours, nothing bookable.
	monday := func() dto.AvailabilityDTO {
		t.Helper()
		var v dto.AvailabilityDTO
		require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/disponibilidad?"+barberQ+"&fecha=2025-03-10", clientTok, nil, &v))
		return v
	}

	avail := monday()
	assert.Len(t, avail.Horarios, 15)
	for label, open := range avail.Horarios {
		assert.False(t, open, label)
	}

	days := make([]dto.TemplateDayDTO, 0, 7)
	for wd := 0; wd < 7; wd++ {
		d := dto.TemplateDayDTO{DiaSemana: wd, Habilitado: wd == int(time.Monday)}
		if d.Habilitado {
			d.HoraInicio, d.HoraFin = "09:00", "11:00"
		}
		days = append(days, d)
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/horario-semanal", barberTok,
		dto.SaveTemplateRequest{BarberoID: barber.ID, Dias: days}, nil))

	// Clients cannot edit the template.
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, "/horario-semanal", clientTok,
		dto.SaveTemplateRequest{BarberoID: barber.ID, Dias: days}, nil))

	avail = monday()
	assert.Equal(t, map[string]bool{
		"09:00 AM - 09:40 AM": true,
		"09:40 AM - 10:20 AM": true,
		"10:20 AM - 11:00 AM": true,
	}, avail.Horarios)
	assert.Equal(t, "template", avail.Origen)

	var ap dto.AppointmentDTO
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/citas", clientTok, dto.CreateAppointmentRequest{
		BarberoID:  barber.ID,
		ServicioID: service.ID,
		Fecha:      "2025-03-10",
		Horario:    "09:40 AM - 10:20 AM",
	}, &ap))
	assert.Equal(t, client.ID, ap.ClienteID)
	assert.Equal(t, "Pendiente", ap.Estado)

	var apiErr struct {
		Code string `json:"error_code"`
	}
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/citas", clientTok, dto.CreateAppointmentRequest{
		BarberoID:  barber.ID,
		ServicioID: service.ID,
		Fecha:      "2025-03-10",
		Horario:    "09:00 AM - 09:40 AM",
	}, &apiErr))
	assert.Equal(t, "client_already_booked", apiErr.Code)

	avail = monday()
	assert.False(t, avail.Horarios["09:40 AM - 10:20 AM"])

	var exc dto.ExceptionDTO
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/disponibilidad-excepcional", barberTok, dto.CreateExceptionRequest{
		BarberoID:     barber.ID,
		Fecha:         "2025-03-10",
		TipoExcepcion: "DiaCompleto",
		Motivo:        "curso",
	}, &exc))
	assert.Equal(t, []uint{ap.ID}, exc.CitasAfectadas)
	assert.False(t, exc.ClientesNotificados)

	avail = monday()
	assert.Empty(t, avail.Horarios)
	assert.Equal(t, "override", avail.Origen)

	var mine struct {
		Data  []dto.AppointmentDTO `json:"data"`
		Total int                  `json:"total"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/citas/mias", clientTok, nil, &mine))
	assert.Equal(t, 1, mine.Total)

	path := "/citas/" + strconv.FormatUint(uint64(ap.ID), 10) + "/estado"
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, path, clientTok,
		dto.AppointmentStatusRequest{Estado: "Completada"}, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, path, clientTok,
		dto.AppointmentStatusRequest{Estado: "Cancelada"}, &ap))
	assert.Equal(t, "Cancelada", ap.Estado)

	excPath := "/disponibilidad-excepcional/" + strconv.FormatUint(uint64(exc.ID), 10)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, excPath, barberTok, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, excPath, barberTok, nil, nil))

	avail = monday()
	assert.Len(t, avail.Horarios, 3)
	assert.True(t, avail.Horarios["09:40 AM - 10:20 AM"])

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/metrics", "", nil, nil))
}
