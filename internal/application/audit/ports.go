package audit

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Outbox almacén durable local para registros que no pudieron escribirse en el historial.
type Outbox interface {
	Append(ctx context.Context, entry *entity.ActivityEntry) error
	// Pending retorna hasta limit registros en orden de llegada.
	Pending(ctx context.Context, limit int) ([]*entity.ActivityEntry, error)
	Remove(ctx context.Context, ids ...string) error
}

// Publisher notifica a los suscriptores en vivo (websocket). Puede ser nil.
type Publisher interface {
	Publish(topic string, payload any)
}

// TopicActivity tópico de eventos del historial.
const TopicActivity = "activity"
