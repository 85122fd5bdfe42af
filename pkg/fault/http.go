package fault

import (
	"errors"
	"net/http"
)

// Body is the JSON error envelope returned by every endpoint
type Body struct {
	Code      int      `json:"code"`
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Details   []Detail `json:"details"`
	RequestID string   `json:"requestID,omitempty"`
}

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewBody builds the envelope for err. Driver text only shows up on
// storage errors.
func NewBody(err error, requestID string) Body {
	b := Body{
		Code:      http.StatusInternalServerError,
		Error:     KindStorage.String(),
		Message:   "Internal server error",
		Details:   []Detail{},
		RequestID: requestID,
	}

	var f *Fault
	if !errors.As(err, &f) {
		b.Details = append(b.Details, Detail{Message: err.Error()})
		return b
	}

	b.Code = f.Kind.Status()
	b.Error = f.Kind.String()
	b.Message = f.Message
	b.Details = append(b.Details, f.Details...)

	if f.Kind == KindStorage && f.Err != nil {
		b.Message = "Internal server error"
		b.Details = append(b.Details, Detail{Message: f.Err.Error()})
	}

	return b
}

// Status builds an envelope for a plain status code
func Status(code int, msg, requestID string) Body {
	return Body{
		Code:      code,
		Error:     category(code),
		Message:   msg,
		Details:   []Detail{},
		RequestID: requestID,
	}
}

func category(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return KindValidation.String()
	case http.StatusUnauthorized:
		return KindUnauthorized.String()
	case http.StatusForbidden:
		return KindForbidden.String()
	case http.StatusNotFound:
		return KindNotFound.String()
	case http.StatusConflict:
		return KindConflict.String()
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return KindStorage.String()
	}
}
