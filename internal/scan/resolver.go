package scan

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/milboard/milboard/internal/learning"
	"github.com/milboard/milboard/internal/metrics"
	"github.com/milboard/milboard/pkg/async"
)

// ErrModuleNotFound is returned when a well-formed payload names an unknown module.
var ErrModuleNotFound = learning.ErrModuleNotFound

type moduleLookup interface {
	Lookup(id string) (learning.Module, bool)
}

// Resolution is where a scanned code leads.
type Resolution struct {
	ModuleID    string `json:"module_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DeepLink    string `json:"deep_link"`
}

// Resolver turns scanned payloads into module deep links.
type Resolver struct {
	modules moduleLookup
	qrSize  int
	logger  zerolog.Logger
}

func NewResolver(modules moduleLookup, qrSize int, logger zerolog.Logger) *Resolver {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &Resolver{
		modules: modules,
		qrSize:  qrSize,
		logger:  logger.With().Str("component", "scan").Logger(),
	}
}

// Resolve parses payload and looks the module up.
func (r *Resolver) Resolve(ctx context.Context, payload string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	id, err := ParsePayload(payload)
	if err != nil {
		metrics.ScansResolved.WithLabelValues("invalid").Inc()
		return Resolution{}, err
	}

	m, ok := r.modules.Lookup(id)
	if !ok {
		metrics.ScansResolved.WithLabelValues("not_found").Inc()
		return Resolution{}, ErrModuleNotFound
	}

	metrics.ScansResolved.WithLabelValues("resolved").Inc()
	return Resolution{
		ModuleID:    m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		DeepLink:    DeepLink(m.ID),
	}, nil
}

// ResolveAsync runs Resolve in the background; callers Await the future
// under their own deadline.
func (r *Resolver) ResolveAsync(ctx context.Context, payload string) *async.Future[Resolution] {
	return async.Go(ctx, func(ctx context.Context) (Resolution, error) {
		res, err := r.Resolve(ctx, payload)
		if err != nil && !errors.Is(err, ErrInvalidPayload) && !errors.Is(err, ErrModuleNotFound) {
			r.logger.Warn().Err(err).Msg("scan resolution failed")
		}
		return res, err
	})
}

// RenderQR encodes the module's payload as a PNG.
func (r *Resolver) RenderQR(moduleID string) ([]byte, error) {
	if _, ok := r.modules.Lookup(moduleID); !ok {
		return nil, ErrModuleNotFound
	}
	return qrcode.Encode(Payload(moduleID), qrcode.Medium, r.qrSize)
}
