// Package dispatch routes a {mode, parameters} envelope to the service
// operation registered for its family and mode.
package dispatch

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HandlerFunc executes one mode with its decoded and validated parameters
type HandlerFunc func(ctx context.Context, params any) (any, error)

// Dispatcher holds the operation of every (family, mode) pair
type Dispatcher struct {
	handlers  map[contract.Family]map[contract.Mode]HandlerFunc
	validator *contract.Validator
}

// New creates an empty dispatcher
func New(validator *contract.Validator) *Dispatcher {
	if validator == nil {
		validator = contract.NewValidator()
	}
	return &Dispatcher{
		handlers:  make(map[contract.Family]map[contract.Mode]HandlerFunc),
		validator: validator,
	}
}

// Register installs h for a mode the protocol defines. It panics on a
// mode the family does not have, which is a wiring bug.
func (d *Dispatcher) Register(f contract.Family, m contract.Mode, h HandlerFunc) {
	if !contract.Supports(f, m) {
		panic(fmt.Sprintf("dispatch: %s has no mode %d", f, m))
	}
	if d.handlers[f] == nil {
		d.handlers[f] = make(map[contract.Mode]HandlerFunc)
	}
	d.handlers[f][m] = h
}

// Handles reports whether an operation is registered for the mode
func (d *Dispatcher) Handles(f contract.Family, m contract.Mode) bool {
	_, ok := d.handlers[f][m]
	return ok
}

// Dispatch decodes and validates the parameters of env and runs the
// registered operation. Unknown modes yield *contract.ModeError, malformed
// parameters *contract.DecodeError and schema failures
// *contract.ValidationErrors; none of them reach a service.
func (d *Dispatcher) Dispatch(ctx context.Context, f contract.Family, env contract.Envelope) (result any, err error) {
	h, ok := d.handlers[f][env.Mode]
	if !ok {
		return nil, &contract.ModeError{Family: f, Mode: env.Mode}
	}

	ctx, span := telemetry.StartServiceSpan(ctx, string(f), contract.ModeName(f, env.Mode),
		attribute.String("rpc.family", string(f)),
		attribute.Int("rpc.mode", int(env.Mode)))
	defer func() { telemetry.EndSpan(span, err) }()

	params, err := contract.Decode(f, env.Mode, env.Parameters)
	if err != nil {
		return nil, err
	}
	if err := d.validator.Validate(params); err != nil {
		logger.L(ctx).Debug("Parameters rejected",
			zap.String("family", string(f)),
			zap.Int("mode", int(env.Mode)),
			zap.Error(err))
		return nil, err
	}
	return h(ctx, params)
}

// Bind adapts a typed service method to a HandlerFunc
func Bind[P any, R any](fn func(ctx context.Context, p P) (R, error)) HandlerFunc {
	return func(ctx context.Context, params any) (any, error) {
		p, ok := params.(*P)
		if !ok {
			return nil, fmt.Errorf("dispatch: parameters are %T, want *%T", params, *new(P))
		}
		return fn(ctx, *p)
	}
}

// BindNoParams adapts a service method without parameters
func BindNoParams[R any](fn func(ctx context.Context) (R, error)) HandlerFunc {
	return func(ctx context.Context, _ any) (any, error) {
		return fn(ctx)
	}
}
