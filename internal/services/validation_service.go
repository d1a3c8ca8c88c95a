// Package services – ValidationService
//
// ValidationService checks username/email availability against the bridge's
// existence endpoint. Its not-found semantics are deliberately the opposite
// of the resource aggregators: an upstream 404 means the name is NOT
// registered, i.e. available — a success, not an error. Do not "unify" this
// with the lookup error mapping; it would invert externally visible behavior.
//
// Outcomes are never cached: availability must reflect the current
// registration state.
package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// ValidationService probes the bridge existence endpoint.
type ValidationService struct {
	Bridge *bridge.Client

	Timeout time.Duration
}

// Check probes whether value is registered as the given type (username or
// email). When the probe itself fails, the returned outcome carries explicit
// nulls and the error wraps ErrCheckFailed — the third "unknown" state is
// never silently coerced to either boolean.
func (s *ValidationService) Check(ctx context.Context, typ, value string) (*domain.ValidationOutcome, error) {
	tr := otel.Tracer("services/ValidationService")
	ctx, span := tr.Start(ctx, "Check",
		trace.WithAttributes(attribute.String("validation.type", typ)),
	)
	defer span.End()

	// Log only a masked prefix; the checked value may be an email address.
	log.Debug().Str("type", typ).Str("value", maskValue(value)).Msg("validating availability")

	raw, err := s.Bridge.FetchJSON(ctx, "/auth/exists/"+typ+"/"+url.PathEscape(value), s.Timeout)
	if err != nil {
		if errors.Is(err, bridge.ErrNotFound) {
			// Not registered upstream: the name is free.
			return s.outcome(typ, false, nil), nil
		}
		out := &domain.ValidationOutcome{
			Type:      typ,
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
		return out, ErrCheckFailed
	}

	data, _ := raw.(map[string]any)
	exists := data != nil && data["userExists"] == true
	if exists {
		return s.outcome(typ, true, data), nil
	}
	return s.outcome(typ, false, nil), nil
}

// outcome builds a resolved (non-ambiguous) result; available is always the
// negation of exists.
func (s *ValidationService) outcome(typ string, exists bool, data domain.Record) *domain.ValidationOutcome {
	available := !exists

	label := cases.Title(language.English).String(typ)
	msg := label + " is available"
	if exists {
		msg = label + " is already taken"
	}

	return &domain.ValidationOutcome{
		Exists:    &exists,
		Available: &available,
		Type:      typ,
		Message:   msg,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// maskValue keeps a short prefix for log correlation and hides the rest.
func maskValue(v string) string {
	const keep = 5
	if len(v) <= keep {
		return v + "***"
	}
	return v[:keep] + "***"
}
