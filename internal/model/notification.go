package model

import "time"

// NoticeLevel says how prominently a notice should be surfaced.
type NoticeLevel int

const (
	// NoticeInfo is a passing confirmation ("exported to ...").
	NoticeInfo NoticeLevel = iota
	// NoticeWarning is advisory and non-blocking (size threshold, memory-only mode).
	NoticeWarning
	// NoticeBlocking must be acknowledged (save failed, import rejected).
	NoticeBlocking
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeWarning:
		return "warning"
	case NoticeBlocking:
		return "blocking"
	default:
		return "unknown"
	}
}

// Notice is a user-facing message produced by the persistence layer.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`

	// Standing notices stay visible for the whole session.
	Standing bool `json:"standing"`
}
