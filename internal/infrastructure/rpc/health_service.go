package rpc

import (
	"net/http"
	"time"

	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// HealthService answers the unauthenticated liveness procedure.
type HealthService struct {
	now  func() time.Time
	errs errorMapper
}

func (s *HealthService) Check(r *http.Request, args *schema.HealthArgs, reply *schema.HealthStatus) error {
	*reply = schema.HealthStatus{Status: "ok", Timestamp: s.now().UTC().Format(time.RFC3339)}
	return s.errs.finish(r, schema.MethodHealth, nil)
}
