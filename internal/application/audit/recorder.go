// Package audit escribe el historial de actividades sin acoplar su éxito al de la
// operación de negocio que lo originó.
package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/backoffice-api/internal/application/audit")

// Options configuración del Recorder.
type Options struct {
	// QueueSize 0 escribe en línea (síncrono); > 0 encola y escribe en segundo plano.
	QueueSize    int
	WriteTimeout time.Duration
	// ReplayBatch registros del outbox reintentados por pasada.
	ReplayBatch int
}

// Recorder implementa el registro best-effort del historial.
// Record nunca devuelve error: los fallos van al log operativo y, si hay outbox, se guardan para reintento.
type Recorder struct {
	repo      repository.ActivityRepository
	outbox    Outbox
	publisher Publisher
	log       zerolog.Logger
	opts      Options
	now       func() time.Time

	mu     sync.RWMutex
	queue  chan *entity.ActivityEntry
	closed bool
	done   chan struct{}
}

// NewRecorder construye el Recorder. outbox y publisher son opcionales.
func NewRecorder(repo repository.ActivityRepository, outbox Outbox, publisher Publisher, log zerolog.Logger, opts Options) *Recorder {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.ReplayBatch <= 0 {
		opts.ReplayBatch = 100
	}
	r := &Recorder{
		repo:      repo,
		outbox:    outbox,
		publisher: publisher,
		log:       log.With().Str("component", "audit").Logger(),
		opts:      opts,
		now:       time.Now,
	}
	if opts.QueueSize > 0 {
		r.queue = make(chan *entity.ActivityEntry, opts.QueueSize)
		r.done = make(chan struct{})
		go r.drain()
	}
	return r
}

// Record agrega una entrada al historial con marca de tiempo del servidor.
func (r *Recorder) Record(ctx context.Context, kind, module, description string, who session.Identity) {
	entry := &entity.ActivityEntry{
		ID:          uuid.New().String(),
		Kind:        strings.TrimSpace(kind),
		Module:      strings.TrimSpace(module),
		Description: description,
		Actor:       who.Actor(),
		CreatedAt:   r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.queue == nil || r.closed {
		r.write(context.WithoutCancel(ctx), entry)
		return
	}
	select {
	case r.queue <- entry:
	default:
		r.log.Warn().Str("entry_id", entry.ID).Msg("cola de historial llena, se envía al outbox")
		r.spill(context.WithoutCancel(ctx), entry, nil)
	}
}

// Close deja de aceptar entradas en cola y espera a que el worker vacíe la cola
// o a que ctx expire.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.queue == nil || r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) drain() {
	defer close(r.done)
	for entry := range r.queue {
		r.write(context.Background(), entry)
	}
}

func (r *Recorder) write(ctx context.Context, entry *entity.ActivityEntry) {
	ctx, span := tracer.Start(ctx, "audit.write")
	defer span.End()
	span.SetAttributes(
		attribute.String("activity.kind", entry.Kind),
		attribute.String("activity.module", entry.Module),
	)

	wctx, cancel := context.WithTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()
	if err := r.repo.Create(wctx, entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		r.spill(ctx, entry, err)
		return
	}
	if r.publisher != nil {
		r.publisher.Publish(TopicActivity, entry)
	}
}

func (r *Recorder) spill(ctx context.Context, entry *entity.ActivityEntry, cause error) {
	ev := r.log.Error().Str("entry_id", entry.ID).Str("kind", entry.Kind).Str("module", entry.Module)
	if cause != nil {
		ev = ev.Err(cause)
	}
	if r.outbox == nil {
		ev.Msg("no se pudo registrar la actividad")
		return
	}
	if err := r.outbox.Append(ctx, entry); err != nil {
		ev.AnErr("outbox_error", err).Msg("no se pudo registrar la actividad ni guardarla en el outbox")
		return
	}
	ev.Msg("actividad guardada en el outbox para reintento")
}

// Replay reintenta las entradas pendientes del outbox. Retorna cuántas se escribieron.
// Se detiene en el primer fallo del historial para conservar el orden.
func (r *Recorder) Replay(ctx context.Context) (int, error) {
	if r.outbox == nil {
		return 0, nil
	}
	replayed := 0
	for {
		pending, err := r.outbox.Pending(ctx, r.opts.ReplayBatch)
		if err != nil {
			return replayed, err
		}
		if len(pending) == 0 {
			return replayed, nil
		}
		for _, entry := range pending {
			wctx, cancel := context.WithTimeout(ctx, r.opts.WriteTimeout)
			err := r.repo.Create(wctx, entry)
			cancel()
			if err != nil {
				return replayed, err
			}
			if err := r.outbox.Remove(ctx, entry.ID); err != nil {
				return replayed, err
			}
			replayed++
		}
	}
}

// RunReplayLoop ejecuta Replay cada interval hasta que ctx se cancele.
func (r *Recorder) RunReplayLoop(ctx context.Context, interval time.Duration) {
	if r.outbox == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Replay(ctx)
			if err != nil {
				r.log.Warn().Err(err).Int("replayed", n).Msg("reintento del outbox incompleto")
				continue
			}
			if n > 0 {
				r.log.Info().Int("replayed", n).Msg("outbox de historial reintentado")
			}
		}
	}
}
