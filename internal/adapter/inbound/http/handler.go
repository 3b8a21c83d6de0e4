package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/app/service"
	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/query"
)

// ConfirmEmailPath is served without bearer authentication.
const ConfirmEmailPath = "/api/user/confirm-email"

// Handler serves the /api/user routes.
type Handler struct {
	updateProfileHandler command.UpdateProfileHandler
	replaceAvatarHandler command.ReplaceAvatarHandler
	confirmEmailHandler  command.ConfirmEmailHandler
	deleteAccountHandler command.DeleteAccountHandler
	getProfileHandler    query.GetProfileHandler
	tokens               service.ConfirmationTokens
	maxAvatarBytes       int
	logger               log.Logger
}

// HandlerConfig holds all the handlers needed by the HTTP handler.
type HandlerConfig struct {
	UpdateProfileHandler command.UpdateProfileHandler
	ReplaceAvatarHandler command.ReplaceAvatarHandler
	ConfirmEmailHandler  command.ConfirmEmailHandler
	DeleteAccountHandler command.DeleteAccountHandler
	GetProfileHandler    query.GetProfileHandler
	Tokens               service.ConfirmationTokens
	MaxAvatarBytes       int
	Logger               log.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxAvatarBytes := cfg.MaxAvatarBytes
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = service.MaxAvatarBytes
	}

	return &Handler{
		updateProfileHandler: cfg.UpdateProfileHandler,
		replaceAvatarHandler: cfg.ReplaceAvatarHandler,
		confirmEmailHandler:  cfg.ConfirmEmailHandler,
		deleteAccountHandler: cfg.DeleteAccountHandler,
		getProfileHandler:    cfg.GetProfileHandler,
		tokens:               cfg.Tokens,
		maxAvatarBytes:       maxAvatarBytes,
		logger:               cfg.Logger,
	}
}

// Register mounts the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/api/user")
	g.GET("/me", h.GetMe)
	g.PUT("/me", h.UpdateMe)
	g.PATCH("/me", h.UpdateMe)
	g.DELETE("/me", h.DeleteMe)
	g.PUT("/me/username", h.UpdateUsername)
	g.PUT("/me/email", h.UpdateEmail)
	g.PUT("/me/password", h.UpdatePassword)
	g.PUT("/me/avatar", h.ReplaceAvatar)
	e.GET(ConfirmEmailPath, h.ConfirmEmail)
}

// Profile

func (h *Handler) GetMe(c echo.Context) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return err
	}

	result, err := h.getProfileHandler.Handle(c.Request().Context(), query.GetProfile{AccountID: accountID})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, toProfileResponse(result.Profile))
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return h.update(c, command.UpdateProfile{
		Username:        toOptionalString(req.Username),
		Email:           toOptionalString(req.Email),
		CurrentPassword: toOptionalString(req.CurrentPassword),
		NewPassword:     toOptionalString(req.NewPassword),
		ConfirmPassword: toOptionalString(req.ConfirmPassword),
		AvatarURL:       toOptionalString(req.AvatarURL),
	})
}

func (h *Handler) UpdateUsername(c echo.Context) error {
	var req UpdateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return h.update(c, command.UpdateProfile{Username: toOptionalString(req.Username)})
}

func (h *Handler) UpdateEmail(c echo.Context) error {
	var req UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return h.update(c, command.UpdateProfile{Email: toOptionalString(req.Email)})
}

func (h *Handler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return h.update(c, command.UpdateProfile{
		CurrentPassword: toOptionalString(req.CurrentPassword),
		NewPassword:     toOptionalString(req.NewPassword),
		ConfirmPassword: toOptionalString(req.ConfirmPassword),
	})
}

// update runs one patch through the orchestrator and renders its field errors.
func (h *Handler) update(c echo.Context, cmd command.UpdateProfile) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return err
	}
	cmd.AccountID = accountID

	result, err := h.updateProfileHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return toHTTPError(err)
	}

	if result.Success {
		return c.NoContent(http.StatusNoContent)
	}

	status := http.StatusBadRequest
	switch {
	case result.NotFound:
		status = http.StatusNotFound
	case result.Retryable:
		status = http.StatusConflict
	}

	return c.JSON(status, FieldErrorsResponse{Errors: result.Errors})
}

func (h *Handler) DeleteMe(c echo.Context) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return err
	}

	if _, err := h.deleteAccountHandler.Handle(c.Request().Context(), command.DeleteAccount{AccountID: accountID}); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Avatar

func (h *Handler) ReplaceAvatar(c echo.Context) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return err
	}

	deleteOld := false
	if raw := strings.TrimSpace(c.FormValue("deleteOld")); raw != "" {
		deleteOld, err = strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "deleteOld must be a boolean")
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return toHTTPError(domainerror.ErrAvatarEmpty)
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read avatar file")
	}
	defer f.Close()

	// One byte over the limit is enough for the size check to reject it.
	data, err := io.ReadAll(io.LimitReader(f, int64(h.maxAvatarBytes)+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read avatar file")
	}

	result, err := h.replaceAvatarHandler.Handle(c.Request().Context(), command.ReplaceAvatar{
		AccountID:   accountID,
		Data:        data,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		DeleteOld:   deleteOld,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, AvatarResponse{AvatarURL: result.URL})
}

// Email confirmation

func (h *Handler) ConfirmEmail(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	token := strings.TrimSpace(c.QueryParam("token"))
	if email == "" || token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and token are required")
	}

	accountID, err := h.tokens.Verify(token, email)
	if err != nil {
		h.logger.Warn("rejected confirmation token", log.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadRequest, domainerror.ErrConfirmationTokenInvalid.Error())
	}

	_, err = h.confirmEmailHandler.Handle(c.Request().Context(), command.ConfirmEmail{
		Email:     email,
		AccountID: accountID,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrConfirmationTokenInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func requireAccountID(c echo.Context) (types.ID, error) {
	accountID, err := AccountIDFromContext(c.Request().Context())
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return accountID, nil
}
