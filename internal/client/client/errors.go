package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/safescan/internal/client/resolver"
	"github.com/dmitrijs2005/safescan/internal/common"
)

// StatusError is a non-2xx answer of the backend. Message holds the "error"
// field of the JSON body when there is one.
type StatusError struct {
	Operation string
	Code      int
	Message   string
	Body      []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Operation, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == common.ErrRemoteRejected }

// NotFound reports a 404 answer.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

// BadRequest reports a 400 answer.
func (e *StatusError) BadRequest() bool { return e.Code == http.StatusBadRequest }

func statusError(op string, resp *resolver.Response) *StatusError {
	se := &StatusError{Operation: op, Code: resp.StatusCode, Body: resp.Body}
	var eb errorBody
	if json.Unmarshal(resp.Body, &eb) == nil {
		se.Message = eb.Error
	}
	return se
}
