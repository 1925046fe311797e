package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entity - тип сущности, изменения которой рассылаются подписчикам
type Entity string

const (
	EntityIncidents   Entity = "incidents"
	EntityResources   Entity = "resources"
	EntityAssignments Entity = "assignments"
)

// Valid проверяет, что сущность известна
func (e Entity) Valid() bool {
	return e == EntityIncidents || e == EntityResources || e == EntityAssignments
}

// Operation - вид изменения
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
)

// Event - одно принятое изменение состояния
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Entity     Entity          `json:"entity"`
	Operation  Operation       `json:"operation"`
	EntityID   uuid.UUID       `json:"entity_id"`
	RelatedIDs []uuid.UUID     `json:"related_ids,omitempty"`
	NewState   json.RawMessage `json:"new_state"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent сериализует новое состояние сущности в событие
func NewEvent(entity Entity, op Operation, entityID uuid.UUID, state any, related ...uuid.UUID) (Event, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s state: %w", entity, err)
	}
	return Event{
		ID:         uuid.New(),
		Entity:     entity,
		Operation:  op,
		EntityID:   entityID,
		RelatedIDs: related,
		NewState:   payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Topic - на что подписан наблюдатель. Нулевой ID означает все записи сущности.
type Topic struct {
	Entity Entity    `json:"entity"`
	ID     uuid.UUID `json:"id,omitempty"`
}

// Matches сообщает, должно ли событие попасть подписчику темы.
// Фильтр по ID срабатывает и на связанные записи (например, назначения своей машины).
func (t Topic) Matches(ev Event) bool {
	if t.Entity != ev.Entity {
		return false
	}
	if t.ID == uuid.Nil || t.ID == ev.EntityID {
		return true
	}
	for _, id := range ev.RelatedIDs {
		if id == t.ID {
			return true
		}
	}
	return false
}

func (t Topic) String() string {
	if t.ID == uuid.Nil {
		return string(t.Entity)
	}
	return string(t.Entity) + ":" + t.ID.String()
}
