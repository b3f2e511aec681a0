package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamRefreshRequest = "stream:accessibility:refresh"
	StreamRefreshDone    = "stream:accessibility:done"
	StreamPresented      = "stream:accessibility:presented"
	StreamRefreshFailed  = "stream:accessibility:failed"
)

// RefreshRequestEvent - входящий запрос на обновление
type RefreshRequestEvent struct {
	RequestID  uuid.UUID        `json:"request_id"`
	Parameters *ParametersPatch `json:"parameters,omitempty"`
}

// RefreshDoneEvent - результат обработки запроса на обновление
type RefreshDoneEvent struct {
	RequestID      uuid.UUID  `json:"request_id"`
	Cycle          uint64     `json:"cycle,omitempty"`
	PresentationID *uuid.UUID `json:"presentation_id,omitempty"`
	Dropped        bool       `json:"dropped,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// RefreshFailedEvent публикуется, когда цикл обновления не смог загрузить поверхность
type RefreshFailedEvent struct {
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
