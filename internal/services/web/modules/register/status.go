package register

import (
	"net/http"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	apperrors "github.com/ifc-cambodge/sreyka/internal/services/web/platform/errors"
)

// HTTPStatus maps an outcome onto the status of the response that reports it.
func HTTPStatus(status registration.Status) int {
	v := &statusCode{code: http.StatusInternalServerError}
	if err := status.Accept(v); err != nil {
		return http.StatusInternalServerError
	}
	return v.code
}

type statusCode struct {
	code int
}

func (s *statusCode) VisitIdle()    { s.code = http.StatusOK }
func (s *statusCode) VisitSuccess() { s.code = http.StatusOK }

func (s *statusCode) VisitInvalidData() {
	s.code = apperrors.HTTPStatus(apperrors.E(apperrors.KindUnprocessable, "invalid registration data"))
}

func (s *statusCode) VisitUserExists() {
	s.code = apperrors.HTTPStatus(apperrors.E(apperrors.KindConflict, "account already exists"))
}

func (s *statusCode) VisitFailed() {
	s.code = apperrors.HTTPStatus(apperrors.E(apperrors.KindUnknown, "account creation failed"))
}
