package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/logging"
	"github.com/PauloHFS/inkpress/internal/metrics"
	"github.com/PauloHFS/inkpress/internal/policies"
	"github.com/PauloHFS/inkpress/internal/validator"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/PauloHFS/inkpress/internal/services")

// Outcome is the transport-neutral success status of a Request.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCreated
	OutcomeDeleted
)

// ListQuery carries the narrowing a list request asked for. Zero values
// mean "not given".
type ListQuery struct {
	Page     int
	PageSize int
	Category int64
	Tag      int64
	Author   int64
	Status   policies.Status
	Search   string
	Ordering string
}

// Request describes one resource operation on behalf of an actor. ID is
// set for object-level actions; Payload is the raw JSON body of writes.
type Request struct {
	Actor   policies.Actor
	Action  policies.Action
	Kind    policies.Kind
	ID      int64
	Payload []byte
	Query   ListQuery
}

type Result struct {
	Status  Outcome
	Message string
	Data    any
}

// ContentService runs every resource operation through authorization and
// visibility before touching the store.
type ContentService struct {
	pool      *db.DualPool
	users     *UserService
	html      *bluemonday.Policy
	plainText *bluemonday.Policy
	now       func() time.Time
}

func NewContentService(pool *db.DualPool, users *UserService) *ContentService {
	return &ContentService{
		pool:      pool,
		users:     users,
		html:      bluemonday.UGCPolicy(),
		plainText: bluemonday.StrictPolicy(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes req. Caller errors are returned as *Error; any other
// error is an internal failure.
func (s *ContentService) Handle(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("%s.%s", req.Kind, req.Action),
		trace.WithAttributes(
			attribute.String("resource.kind", string(req.Kind)),
			attribute.String("resource.action", string(req.Action)),
			attribute.Int64("resource.id", req.ID),
			attribute.Int64("actor.id", req.Actor.ID),
			attribute.String("actor.role", req.Actor.Role.String()),
		),
	)
	defer span.End()

	res, err := s.dispatch(ctx, req)
	if err != nil {
		span.RecordError(err)
		if _, ok := AsError(err); !ok {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	return res, err
}

func (s *ContentService) dispatch(ctx context.Context, req Request) (Result, error) {
	switch req.Kind {
	case policies.KindPost:
		switch req.Action {
		case policies.ActionList:
			return s.listPosts(ctx, req)
		case policies.ActionRetrieve:
			return s.retrievePost(ctx, req)
		case policies.ActionCreate:
			return s.createPost(ctx, req)
		case policies.ActionUpdate, policies.ActionPartialUpdate:
			return s.updatePost(ctx, req)
		case policies.ActionDestroy:
			return s.destroyPost(ctx, req)
		}
	case policies.KindCategory:
		return s.handleCategory(ctx, req)
	case policies.KindTag:
		return s.handleTag(ctx, req)
	case policies.KindUser:
		return s.handleUser(ctx, req)
	}
	return Result{}, fmt.Errorf("unsupported operation %s on %s", req.Action, req.Kind)
}

// authorize asks the policy engine and reports the outcome to metrics and
// the request's wide event.
func authorize(ctx context.Context, actor policies.Actor, action policies.Action, kind policies.Kind, target *policies.Target) error {
	d := policies.Authorize(actor, action, kind, target)

	metrics.AuthorizationDecisions.WithLabelValues(string(kind), string(action), d.String(), string(d.Reason)).Inc()
	logging.AddToEvent(ctx,
		slog.String("authz_decision", d.String()),
		slog.String("authz_reason", string(d.Reason)),
	)
	trace.SpanFromContext(ctx).AddEvent("authorize", trace.WithAttributes(
		attribute.String("decision", d.String()),
		attribute.String("reason", string(d.Reason)),
	))

	if d.Allowed {
		return nil
	}
	logging.Get().Debug(policies.Denied(actor, action, kind, d))
	return denyError(actor, kind, d)
}

// decode reads a JSON payload and checks its struct tags. An empty body
// decodes to the zero value.
func decode(payload []byte, v any) error {
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, v); err != nil {
			return errField("body", fmt.Sprintf("malformed JSON: %v", err))
		}
	}
	if result := validator.Check(v); !result.Valid {
		return errValidation(result.Fields())
	}
	return nil
}

// required reports the names whose values are missing.
func required(fields map[string]bool) error {
	missing := map[string]string{}
	for name, present := range fields {
		if !present {
			missing[name] = "this field is required"
		}
	}
	if len(missing) > 0 {
		return errValidation(missing)
	}
	return nil
}
