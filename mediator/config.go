package mediator

import (
	"context"
	"errors"
	"fmt"

	"github.com/domainkit/domainkit"
)

// PublishStrategy decides how the handlers of one notification are executed.
type PublishStrategy int

const (
	// SequentialStrategy runs handlers one by one, in registration order.
	SequentialStrategy PublishStrategy = iota
	// ParallelStrategy runs all handlers concurrently.
	ParallelStrategy
)

func (s PublishStrategy) String() string {
	switch s {
	case SequentialStrategy:
		return "sequential"
	case ParallelStrategy:
		return "parallel"
	default:
		return fmt.Sprintf("PublishStrategy(%d)", int(s))
	}
}

type Config struct {
	// Strategy is SequentialStrategy by default.
	Strategy PublishStrategy

	// ContinueOnError makes the mediator run all handlers even if some of them failed.
	// Errors of all failed handlers are returned together.
	//
	// Without it, SequentialStrategy stops at the first failed handler and ParallelStrategy
	// cancels the context passed to the remaining handlers.
	ContinueOnError bool

	// OnHandle is called instead of calling the handler directly.
	// It works like a middleware: params.Handler.Handle() needs to be called explicitly.
	//
	//	func(params OnHandleParams) error {
	//		// logic before handle
	//		err := params.Handler.Handle(params.Ctx, params.Notification)
	//		// logic after handle
	//		return err
	//	}
	//
	// This option is not required.
	OnHandle OnHandleFn

	// Logger instance used to log.
	// If not provided, domainkit.NopLogger is used.
	Logger domainkit.LoggerAdapter
}

type OnHandleFn func(params OnHandleParams) error

type OnHandleParams struct {
	Ctx          context.Context
	Handler      NotificationHandler
	Notification Notification
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = domainkit.NopLogger{}
	}
}

func (c Config) Validate() error {
	var err error

	if c.Strategy != SequentialStrategy && c.Strategy != ParallelStrategy {
		err = errors.Join(err, fmt.Errorf("unknown Strategy %s", c.Strategy))
	}

	return err
}
