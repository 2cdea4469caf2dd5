package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/cache"
	"github.com/BruksfildServices01/barber-availability/internal/config"
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/logger"
	"github.com/BruksfildServices01/barber-availability/internal/metrics"
	"github.com/BruksfildServices01/barber-availability/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/exception"
)

// Deps are the process-wide singletons the routes are built from. Cache,
// Audit and Metrics may be nil.
type Deps struct {
	DB      *gorm.DB
	SQL     handlers.Pinger
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Cache   *cache.AvailabilityCache
	Audit   *audit.Dispatcher

	// Policy comes from cfg.SchedulePolicy, validated at startup.
	Policy schedule.Policy

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	log := deps.Log

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	txm := infraRepo.NewGormTxManager(deps.DB)
	resolver := availability.NewResolver(deps.Policy, deps.Clock)

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := availability.NewGetAvailability(txm, resolver, deps.Cache, log)
	toggleSlotsUC := availability.NewToggleSlots(txm, resolver, deps.Cache, deps.Audit, log)
	getTemplateUC := availability.NewGetWeeklyTemplate(txm)
	saveTemplateUC := availability.NewSaveWeeklyTemplate(txm, deps.Audit, log)
	applyTemplateUC := availability.NewApplyTemplate(
		txm, resolver, deps.Cache, deps.Audit, log,
		cfg.Schedule.MaxTemplateRangeDays,
	)

	createExceptionUC := exception.NewCreateException(txm, resolver, deps.Cache, deps.Audit, deps.Metrics, log)
	deleteExceptionUC := exception.NewDeleteException(txm, deps.Cache, deps.Audit, log)
	getExceptionUC := exception.NewGetException(txm)
	listExceptionsUC := exception.NewListExceptions(txm, resolver)

	createAppointmentUC := ucAppointment.NewCreateAppointment(txm, resolver, deps.Cache, deps.Audit, deps.Metrics, log)
	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(txm, resolver, deps.Cache, deps.Audit, deps.Metrics, log)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(txm, resolver, deps.Cache, deps.Audit, log)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(txm, resolver, deps.Cache, deps.Audit, log)
	getAppointmentUC := ucAppointment.NewGetAppointment(txm)
	agendaUC := ucAppointment.NewListBarberAgenda(txm)
	mineUC := ucAppointment.NewListClientAppointments(txm)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(deps.SQL, log)
	meHandler := handlers.NewMeHandler()
	barbershopHandler := handlers.NewBarbershopHandler(deps.DB, deps.Audit, log)
	barberProductHandler := handlers.NewBarberProductHandler(deps.DB, log)
	clientHandler := handlers.NewClientHandler(deps.DB, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, log)

	availabilityHandler := handlers.NewAvailabilityHandler(getAvailabilityUC, toggleSlotsUC, log)
	templateHandler := handlers.NewTemplateHandler(getTemplateUC, saveTemplateUC, applyTemplateUC, log)
	exceptionHandler := handlers.NewExceptionHandler(
		createExceptionUC,
		deleteExceptionUC,
		getExceptionUC,
		listExceptionsUC,
		log,
	)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		getAppointmentUC,
		agendaUC,
		mineUC,
		log,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// ======================================================
	// API
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		secured.GET("/me", meHandler.GetMe)
		secured.GET("/barberia", barbershopHandler.Get)
		secured.PATCH("/barberia", barbershopHandler.Update)
		secured.GET("/servicios", barberProductHandler.List)
		secured.GET("/clientes", clientHandler.List)
		secured.GET("/auditoria", auditLogsHandler.List)

		// ------------------------------
		// AVAILABILITY
		// ------------------------------
		secured.GET("/disponibilidad", availabilityHandler.Get)
		secured.PUT("/disponibilidad", availabilityHandler.Toggle)

		secured.GET("/horario-semanal", templateHandler.Get)
		secured.PUT("/horario-semanal", templateHandler.Save)
		secured.POST("/horario-semanal/aplicar", templateHandler.Apply)

		secured.GET("/disponibilidad-excepcional", exceptionHandler.List)
		secured.POST("/disponibilidad-excepcional", exceptionHandler.Create)
		secured.GET("/disponibilidad-excepcional/:id", exceptionHandler.Get)
		secured.DELETE("/disponibilidad-excepcional/:id", exceptionHandler.Delete)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.POST("/citas", appointmentHandler.Create)
		secured.GET("/citas", appointmentHandler.ListByBarber)
		secured.GET("/citas/mias", appointmentHandler.ListMine)
		secured.GET("/citas/:id", appointmentHandler.Get)
		secured.PUT("/citas/:id", appointmentHandler.Reschedule)
		secured.PUT("/citas/:id/estado", appointmentHandler.UpdateStatus)
	}
}
