package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/api/metrics"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
	"github.com/campusdeals/marketplace-api/internal/core/service"
)

// Guard runs the transaction guard for op before the handler. On success
// the identity and admission are stored in the context.
func Guard(g *service.Guard, op domain.Operation, audit ports.AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := Admit(c, g, op, audit); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Admit runs the guard for op against the request, records the outcome and
// stores the admission in the context.
func Admit(c echo.Context, g *service.Guard, op domain.Operation, audit ports.AuditSink) (*domain.Admission, error) {
	return admit(c, op, audit, func() (*domain.Admission, error) {
		return g.Admit(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization), op)
	})
}

// AdmitIdentity is Admit for a request the Auth middleware already
// authenticated. It skips the gate and starts at the directory lookup.
func AdmitIdentity(c echo.Context, g *service.Guard, id domain.Identity, op domain.Operation, audit ports.AuditSink) (*domain.Admission, error) {
	return admit(c, op, audit, func() (*domain.Admission, error) {
		return g.AdmitIdentity(c.Request().Context(), id, op)
	})
}

func admit(c echo.Context, op domain.Operation, audit ports.AuditSink, run func() (*domain.Admission, error)) (*domain.Admission, error) {
	c.Set(ContextKeyOperation, op)

	start := time.Now()
	adm, err := run()
	metrics.GuardDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	metrics.GuardDecisionsTotal.WithLabelValues(string(op), string(service.StageOf(err))).Inc()

	if err != nil {
		if audit != nil && !errors.Is(err, domain.ErrMissingCredential) {
			audit.Record(deniedEvent(c, op, err))
		}
		return nil, err
	}

	c.Set(ContextKeyIdentity, adm.Identity)
	c.Set(ContextKeyAdmission, adm)
	return adm, nil
}

func deniedEvent(c echo.Context, op domain.Operation, err error) domain.AuthEvent {
	ev := domain.AuthEvent{
		Type:       domain.EventAccessDenied,
		Operation:  op,
		Reason:     string(service.StageOf(err)),
		RequestID:  RequestID(c),
		OccurredAt: time.Now().UTC(),
	}
	var ge *service.GuardError
	if errors.As(err, &ge) {
		ev.UserID = ge.Identity.UserID
		ev.Email = ge.Identity.Email
	}
	return ev
}
