// Package services – StatusService
//
// StatusService probes the bridge's connectivity endpoint. It never returns
// an error: every failure mode is folded into the ConnectivityStatus body so
// that the /api/status endpoint can answer HTTP 200 unconditionally and
// polling clients only ever branch on the status field ("disconnected" means
// the bridge said the platform link is down, "error" means the bridge itself
// could not be reached).
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// StatusService probes upstream connectivity. Results are never cached; each
// call reflects a fresh probe within its own timeout.
type StatusService struct {
	Bridge *bridge.Client

	Timeout time.Duration
}

// Check probes the bridge and reports the platform connection state.
func (s *StatusService) Check(ctx context.Context) *domain.ConnectivityStatus {
	tr := otel.Tracer("services/StatusService")
	ctx, span := tr.Start(ctx, "Check")
	defer span.End()

	raw, err := s.Bridge.FetchJSON(ctx, "/vrchat/connected", s.Timeout)
	if err != nil {
		return &domain.ConnectivityStatus{
			Connected: false,
			Status:    domain.StatusError,
			Message:   statusErrMessage(err),
			Timestamp: time.Now().UTC(),
		}
	}

	data, _ := raw.(map[string]any)
	connected := data != nil && (data["connected"] == true || data["status"] == domain.StatusConnected)

	st := &domain.ConnectivityStatus{
		Connected: connected,
		Status:    domain.StatusDisconnected,
		Message:   "VRChat API is disconnected",
		Timestamp: time.Now().UTC(),
		APIData:   raw,
	}
	if connected {
		st.Status = domain.StatusConnected
		st.Message = "VRChat API is connected"
	}
	return st
}

// statusErrMessage renders a probe failure for the status body.
func statusErrMessage(err error) string {
	var se *bridge.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("VRChat Bridge API returned %d", se.StatusCode)
	case errors.Is(err, bridge.ErrNotFound):
		return "VRChat Bridge API returned 404"
	case errors.Is(err, bridge.ErrTimeout):
		return "VRChat Bridge API did not answer in time"
	default:
		return err.Error()
	}
}
