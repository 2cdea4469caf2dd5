// Package notify delivers outbox events to the external notification
// service.
package notify

import (
	"context"

	"go.uber.org/zap"
)

type AffectedAppointment struct {
	AppointmentID uint   `json:"citaId"`
	ClientID      uint   `json:"clienteId"`
	Slot          string `json:"horario"`
}

// ExceptionNotice is the payload of an exception.created outbox event.
type ExceptionNotice struct {
	ExceptionID  uint                  `json:"excepcionId"`
	BarberID     uint                  `json:"barberoId"`
	Date         string                `json:"fecha"`
	Type         string                `json:"tipoExcepcion"`
	Reason       string                `json:"motivo"`
	Appointments []AffectedAppointment `json:"citasAfectadas"`
}

type Notifier interface {
	NotifyException(ctx context.Context, notice ExceptionNotice) error
}

// LogNotifier only logs. It stands in when no notification service is
// configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyException(_ context.Context, notice ExceptionNotice) error {
	n.log.Info("exception_notice",
		zap.Uint("exception_id", notice.ExceptionID),
		zap.Uint("barber_id", notice.BarberID),
		zap.String("date", notice.Date),
		zap.Int("appointments", len(notice.Appointments)),
	)
	return nil
}
