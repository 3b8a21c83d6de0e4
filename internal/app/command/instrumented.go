package command

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

const tracerName = "github.com/0xsj/overwatch-profile/internal/app/command"

// Outcome labels recorded per command.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// fieldReporter is implemented by results that carry per-field failures.
type fieldReporter interface {
	FailedFields() []string
}

type instrumented[C command.Command, R any] struct {
	next    command.Handler[C, R]
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// Instrument wraps next with a span and command metrics.
func Instrument[C command.Command, R any](next command.Handler[C, R], metrics *telemetry.Metrics) command.Handler[C, R] {
	return &instrumented[C, R]{
		next:    next,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

func (h *instrumented[C, R]) Handle(ctx context.Context, cmd C) (res R, err error) {
	name := cmd.CommandName()
	ctx, span := h.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("command", name)))
	start := time.Now()

	defer func() {
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if fr, ok := any(res).(fieldReporter); ok {
			if fields := fr.FailedFields(); len(fields) > 0 {
				outcome = OutcomeRejected
				span.SetAttributes(attribute.StringSlice("failed_fields", fields))
				h.metrics.ObserveFieldErrors(name, fields)
			}
		}
		h.metrics.ObserveCommand(name, outcome, time.Since(start))
		span.End()
	}()

	return h.next.Handle(ctx, cmd)
}
