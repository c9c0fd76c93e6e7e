package domain

// EventType тип события ленты
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventFriend EventType = "FRIEND"
	EventReview EventType = "REVIEW"
)

// Operation операция, зафиксированная в ленте
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationUpdate Operation = "UPDATE"
	OperationRemove Operation = "REMOVE"
)

// Event запись ленты событий пользователя. Лента только дополняется.
type Event struct {
	EventID   int64     `json:"eventId" db:"event_id"`
	Timestamp int64     `json:"timestamp" db:"event_timestamp"` // unix millis
	EventType EventType `json:"eventType" db:"event_type"`
	Operation Operation `json:"operation" db:"operation"`
	UserID    int64     `json:"userId" db:"user_id"`
	EntityID  int64     `json:"entityId" db:"entity_id"`
}
