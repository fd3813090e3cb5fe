package worker

// ExportNotifyMessage is the WebSocket message protocol forwarded to
// clients through Redis pub/sub. Field names match the client parser.
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      uint   `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	PdfKey        string `json:"pdf_key,omitempty"`
	ThumbnailKey  string `json:"thumbnail_key,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// Notify status values.
const (
	NotifyStatusCompleted = "completed"
	NotifyStatusError     = "error"
)
