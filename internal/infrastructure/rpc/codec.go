package rpc

import (
	"errors"
	"net/http"

	gorillarpc "github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// codec is the JSON-RPC 2.0 codec with params decoding failures reported as BAD_REQUEST,
// the same shape procedures use for validation failures.
type codec struct {
	inner *json2.Codec
}

func newCodec() *codec {
	return &codec{inner: json2.NewCodec()}
}

func (c *codec) NewRequest(r *http.Request) gorillarpc.CodecRequest {
	return &codecRequest{CodecRequest: c.inner.NewRequest(r)}
}

type codecRequest struct {
	gorillarpc.CodecRequest
}

func (c *codecRequest) ReadRequest(args interface{}) error {
	err := c.CodecRequest.ReadRequest(args)
	if err == nil {
		return nil
	}
	var jerr *json2.Error
	if !errors.As(err, &jerr) || jerr.Code != json2.E_INVALID_REQ {
		return err
	}
	if method, merr := c.Method(); merr == nil {
		middleware.RecordRPCCall(method, schema.CodeBadRequest)
	}
	return badRequest([]schema.Issue{{Message: "params: " + jerr.Message}})
}
