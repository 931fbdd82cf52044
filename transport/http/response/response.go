package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"rentfy/shared/constant"
	"rentfy/shared/failure"
	"rentfy/shared/logger"
	"sync/atomic"
)

type Data[T any] struct {
	Success bool    `json:"success"`
	Data    *T      `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
}

type Error struct {
	Success bool           `json:"success"`
	Error   *string        `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type Message struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

var exposeInternalErrors atomic.Bool

// ExposeInternalErrors makes WithError render the message of unclassified errors
// instead of a generic one. Only development servers should enable it.
func ExposeInternalErrors(expose bool) {
	exposeInternalErrors.Store(expose)
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Success: isSuccess(code), Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Success: isSuccess(code), Data: &jsonPayload})
}

// WithJSONMessage sends a JSON object together with a human readable message
func WithJSONMessage(writer http.ResponseWriter, code int, jsonPayload interface{}, message string) {
	response(writer, code, Data[any]{Success: isSuccess(code), Data: &jsonPayload, Message: &message})
}

// WithError sends a response with an error message
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	var fail *failure.Failure
	if !errors.As(err, &fail) {
		logger.ErrorWithStack(err)

		if !exposeInternalErrors.Load() {
			errMsg = constant.ResponseErrorInternal
		}
	}

	response(writer, code, Error{Error: &errMsg, Details: failure.GetDetails(err)})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func isSuccess(code int) bool {
	return code < http.StatusBadRequest
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
