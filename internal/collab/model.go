// Package collab carries the conversational side of a record: chat messages
// and document-upload events. Both are append-only and feed the audit
// timeline; file bytes themselves are stored elsewhere.
package collab

import "time"

// ChatMessage is one append-only discussion entry on a record.
type ChatMessage struct {
	ID       int64     `json:"id"`
	RecordID int64     `json:"record_id"`
	AuthorID int64     `json:"author_id"`
	Body     string    `json:"body"`
	At       time.Time `json:"at"`
}

// DocumentEvent records that a file was attached to a record. Only metadata
// is kept here.
type DocumentEvent struct {
	ID          int64     `json:"id"`
	RecordID    int64     `json:"record_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  int64     `json:"uploaded_by"`
	At          time.Time `json:"at"`
}
