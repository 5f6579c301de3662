package rpc

import (
	"errors"
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// Messages of the typed errors.
const (
	MsgBadRequest   = "Input validation failed"
	MsgUnauthorized = "Authentication required"
	MsgNotFound     = "Resource not found"
	MsgInternal     = "Internal server error"
)

// resultCodeOK labels successful calls in metrics.
const resultCodeOK = "OK"

// errorMapper turns procedure errors into JSON-RPC errors and records the outcome.
type errorMapper struct {
	log          zerolog.Logger
	exposeDetail bool
}

// finish records the call and returns the wire error, or nil on success.
func (m errorMapper) finish(r *http.Request, method string, err error) error {
	if err == nil {
		middleware.RecordRPCCall(method, resultCodeOK)
		return nil
	}
	rpcErr := m.toRPCError(err)
	data := rpcErr.Data.(schema.ErrorData)
	middleware.RecordRPCCall(method, data.Code)

	ev := m.log.Info()
	if data.Code == schema.CodeInternalServer {
		ev = m.log.Error().Err(err)
	}
	ev.Str("request_id", chimid.GetReqID(r.Context())).
		Str("method", method).
		Str("code", data.Code).
		Msg("rpc_call")
	return rpcErr
}

func (m errorMapper) toRPCError(err error) *json2.Error {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		return badRequest(verr.Issues)
	case errors.Is(err, domerrors.ErrUnauthorized):
		return &json2.Error{
			Code:    json2.ErrorCode(schema.RPCCodeUnauthorized),
			Message: MsgUnauthorized,
			Data:    schema.ErrorData{Code: schema.CodeUnauthorized, Status: http.StatusUnauthorized},
		}
	case errors.Is(err, domerrors.ErrTodoNotFound):
		return &json2.Error{
			Code:    json2.ErrorCode(schema.RPCCodeNotFound),
			Message: MsgNotFound,
			Data:    schema.ErrorData{Code: schema.CodeNotFound, Status: http.StatusNotFound},
		}
	default:
		data := schema.ErrorData{Code: schema.CodeInternalServer, Status: http.StatusInternalServerError}
		if m.exposeDetail {
			data.Detail = err.Error()
		}
		return &json2.Error{Code: json2.E_INTERNAL, Message: MsgInternal, Data: data}
	}
}

func badRequest(issues []schema.Issue) *json2.Error {
	return &json2.Error{
		Code:    json2.E_BAD_PARAMS,
		Message: MsgBadRequest,
		Data:    schema.ErrorData{Code: schema.CodeBadRequest, Status: http.StatusBadRequest, Issues: issues},
	}
}
