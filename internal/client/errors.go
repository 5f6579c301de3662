package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// Error is a typed failure reported by the server.
// Transport failures are never *Error; they are returned wrapped as-is.
type Error struct {
	// RPCCode is the JSON-RPC error code, zero for non-JSON-RPC HTTP failures.
	RPCCode int
	Code    string
	Status  int
	Message string
	Issues  []schema.Issue
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s: %s", e.Code, e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *Error) IsUnauthorized() bool { return e.Code == schema.CodeUnauthorized }
func (e *Error) IsNotFound() bool     { return e.Code == schema.CodeNotFound }
func (e *Error) IsBadRequest() bool   { return e.Code == schema.CodeBadRequest }

// AsError unwraps err to a server-reported *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsUnauthorized(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsUnauthorized()
}

func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsNotFound()
}

func IsBadRequest(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsBadRequest()
}

// fromRPCError converts a JSON-RPC error response. Errors carrying typed data keep
// its code and status; protocol-level errors are classified by JSON-RPC code.
func fromRPCError(jerr *json2.Error) *Error {
	e := &Error{RPCCode: int(jerr.Code), Message: jerr.Message}
	var data schema.ErrorData
	if jerr.Data != nil {
		if raw, err := json.Marshal(jerr.Data); err == nil {
			_ = json.Unmarshal(raw, &data)
		}
	}
	if data.Code != "" {
		e.Code, e.Status, e.Issues, e.Detail = data.Code, data.Status, data.Issues, data.Detail
		return e
	}
	switch jerr.Code {
	case json2.E_PARSE, json2.E_INVALID_REQ, json2.E_BAD_PARAMS:
		e.Code, e.Status = schema.CodeBadRequest, http.StatusBadRequest
	case json2.E_NO_METHOD:
		e.Code, e.Status = schema.CodeNotFound, http.StatusNotFound
	default:
		e.Code, e.Status = schema.CodeInternalServer, http.StatusInternalServerError
	}
	return e
}

// fromHTTPStatus converts a non-2xx response that carries no JSON-RPC envelope.
func fromHTTPStatus(status int, body []byte) *Error {
	e := &Error{Status: status, Message: http.StatusText(status)}
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			e.Message = payload.Error
		}
		e.Code = payload.Code
	}
	if e.Code == "" {
		switch {
		case status == http.StatusUnauthorized:
			e.Code = schema.CodeUnauthorized
		case status == http.StatusNotFound:
			e.Code = schema.CodeNotFound
		case status == http.StatusTooManyRequests:
			e.Code = "TOO_MANY_REQUESTS"
		case status >= 400 && status < 500:
			e.Code = schema.CodeBadRequest
		default:
			e.Code = schema.CodeInternalServer
		}
	}
	return e
}
