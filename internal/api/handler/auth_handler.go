package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/api/metrics"
	"github.com/campusdeals/marketplace-api/internal/api/middleware"
	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
	"github.com/campusdeals/marketplace-api/internal/core/service"
)

// AuthHandler handles registration, login, profile lookup and transaction
// pre-validation.
type AuthHandler struct {
	service ports.AuthService
	guard   *service.Guard
	audit   ports.AuditSink
}

func NewAuthHandler(svc ports.AuthService, guard *service.Guard, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{service: svc, guard: guard, audit: audit}
}

// Signup handles POST /api/auth/signup and its /register alias.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		Phone:     req.Phone,
		StudyYear: req.StudyYear,
		Branch:    req.Branch,
		Section:   req.Section,
		Residency: req.Residency,
		RequestID: middleware.RequestID(c),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(res.User.Role)).Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   res.Token,
		User:    newSessionUser(res.User),
	})
}

// Login handles POST /api/auth/login.
//
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]interface{}
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.service.Login(c.Request().Context(), req.Email, req.Password, middleware.RequestID(c))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Token:   res.Token,
		User:    newSessionUser(res.User),
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// Profile handles GET /api/auth/profile.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		Message: "Profile retrieved successfully",
		User:    user,
	})
}

// ValidateTransaction handles POST /api/auth/validate-transaction. It runs
// the transaction guard for the requested operation without performing it.
//
// @Summary      Check whether the caller may buy or sell
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body       body      validateTransactionRequest  false  "Operation"
// @Param        operation  query     string                      false  "buy or sell"
// @Success      200        {object}  transactionResponse
// @Failure      400        {object}  map[string]interface{}
// @Failure      401        {object}  map[string]interface{}
// @Failure      403        {object}  map[string]interface{}
// @Failure      404        {object}  map[string]interface{}
// @Failure      503        {object}  map[string]interface{}
// @Router       /api/auth/validate-transaction [post]
func (h *AuthHandler) ValidateTransaction(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req validateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if req.Operation == "" {
		req.Operation = c.QueryParam("operation")
	}

	op := domain.Operation(strings.ToLower(strings.TrimSpace(req.Operation)))
	if !op.Valid() {
		return domain.Invalid("operation", "operation must be one of",
			string(domain.OperationBuy), string(domain.OperationSell))
	}

	adm, err := middleware.AdmitIdentity(c, h.guard, id, op, h.audit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transactionResponse{
		Success:   true,
		Valid:     true,
		Operation: op,
		User: transactionUser{
			UserID: adm.Account.ID,
			Name:   adm.Account.Name,
			Email:  adm.Account.Email,
			Role:   adm.Account.Role,
		},
	})
}
