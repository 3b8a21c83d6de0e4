package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"

	pkggrpc "github.com/0xsj/overwatch-pkg/grpc"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
)

// ErrorResponse is the body of a single-error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldErrorsResponse is the body of a rejected profile update.
type FieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}

// toHTTPError converts domain errors to echo HTTP errors. Upstream and
// payload failures are checked first; everything else goes through the
// shared kind to gRPC code mapping.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case domainerror.IsUpstreamFailure(err):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	case domainerror.IsPayloadInvalid(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	st := pkggrpc.ToStatus(err)
	status := httpStatusFromCode(st.Code())
	msg := st.Message()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
