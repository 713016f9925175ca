package inventory

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/session"
)

// ActivityRecorder registra actividad en el historial. Nunca falla hacia el llamador.
type ActivityRecorder interface {
	Record(ctx context.Context, kind, module, description string, who session.Identity)
}

// Publisher notifica cambios de stock a los suscriptores en vivo.
type Publisher interface {
	Publish(topic string, payload any)
}

// TopicStock tópico de eventos de stock.
const TopicStock = "stock"

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}
