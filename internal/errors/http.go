package errors

import "net/http"

// HTTPStatus maps err to the status code the editor API responds with.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation:
		if CodeOf(err) == ErrCodeInvalidOrigin {
			return http.StatusForbidden
		}
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
