package collab

import (
	"context"
	"errors"
	"strings"

	"github.com/avjabalpur/cian-erp-sub001/internal/audit"
)

// ErrEmptyMessage rejects blank chat messages.
var ErrEmptyMessage = errors.New("message body required")

// Service manages chat messages and document events.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PostMessage appends a chat message.
func (s *Service) PostMessage(ctx context.Context, recordID, authorID int64, body string) (int64, error) {
	if strings.TrimSpace(body) == "" {
		return 0, ErrEmptyMessage
	}
	return s.repo.InsertMessage(ctx, ChatMessage{RecordID: recordID, AuthorID: authorID, Body: body})
}

// Messages lists a record's chat messages.
func (s *Service) Messages(ctx context.Context, recordID int64) ([]ChatMessage, error) {
	return s.repo.ListMessages(ctx, recordID)
}

// AttachDocument records a document-upload event.
func (s *Service) AttachDocument(ctx context.Context, d DocumentEvent) (int64, error) {
	if strings.TrimSpace(d.FileName) == "" {
		return 0, errors.New("file name required")
	}
	return s.repo.InsertDocument(ctx, d)
}

// Documents lists a record's document events.
func (s *Service) Documents(ctx context.Context, recordID int64) ([]DocumentEvent, error) {
	return s.repo.ListDocuments(ctx, recordID)
}

// ChatTimelineSource adapts chat messages into audit timeline events.
type ChatTimelineSource struct {
	Service *Service
}

// Events implements the timeline source contract.
func (src ChatTimelineSource) Events(ctx context.Context, recordID int64) ([]audit.Event, error) {
	messages, err := src.Service.Messages(ctx, recordID)
	if err != nil {
		return nil, err
	}
	events := make([]audit.Event, 0, len(messages))
	for _, m := range messages {
		events = append(events, audit.Event{
			At:      m.At,
			Kind:    audit.EventKindChat,
			ActorID: m.AuthorID,
			Body:    m.Body,
		})
	}
	return events, nil
}

// DocumentTimelineSource adapts document events into audit timeline events.
type DocumentTimelineSource struct {
	Service *Service
}

// Events implements the timeline source contract.
func (src DocumentTimelineSource) Events(ctx context.Context, recordID int64) ([]audit.Event, error) {
	docs, err := src.Service.Documents(ctx, recordID)
	if err != nil {
		return nil, err
	}
	events := make([]audit.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, audit.Event{
			At:      d.At,
			Kind:    audit.EventKindDocument,
			ActorID: d.UploadedBy,
			Body:    d.FileName,
		})
	}
	return events, nil
}
