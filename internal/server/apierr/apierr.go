// Package apierr maps identity-core errors onto transport status codes for
// the API layer that hosts the core.
package apierr

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// kind is one row of the mapping table.
type kind struct {
	sentinel   error
	httpStatus int
	grpcCode   codes.Code
	expose     bool
}

// Invalid credentials map to 400 rather than 401 so that clients cannot
// tell a bad login from any other rejected request.
var kinds = []kind{
	{common.ErrorValidation, http.StatusBadRequest, codes.InvalidArgument, true},
	{common.ErrorNotFound, http.StatusNotFound, codes.NotFound, true},
	{common.ErrorInvalidCredentials, http.StatusBadRequest, codes.Unauthenticated, true},
	{common.ErrInvalidToken, http.StatusUnauthorized, codes.Unauthenticated, true},
	{common.ErrTokenExpired, http.StatusUnauthorized, codes.Unauthenticated, true},
	{common.ErrTransient, http.StatusServiceUnavailable, codes.Unavailable, false},
}

func classify(err error) (kind, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k, true
		}
	}
	return kind{}, false
}

// HTTPStatus returns the status code and the message safe to show for err.
// Unknown errors become 500 with common.GenericErrorMessage.
func HTTPStatus(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}
	k, ok := classify(err)
	if !ok {
		return http.StatusInternalServerError, common.GenericErrorMessage
	}
	if !k.expose {
		return k.httpStatus, http.StatusText(k.httpStatus)
	}
	return k.httpStatus, err.Error()
}

// GRPCStatus converts err into a gRPC status error. Errors that already
// carry a status are returned as is.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	k, ok := classify(err)
	if !ok {
		return status.Error(codes.Internal, common.GenericErrorMessage)
	}
	if !k.expose {
		return status.Error(k.grpcCode, k.sentinel.Error())
	}
	return status.Error(k.grpcCode, err.Error())
}
