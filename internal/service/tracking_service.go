package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/tracker"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

const (
	msgPostIDRequired = "post_id is required and must be a string"
	msgBadType        = "interaction_type must be one of: view, click, like, share"
	msgBadMetadata    = "metadata must be an object if provided"
	msgNoInteractions = "at least one interaction is required"
)

// ValidationError reports why every entry in a track request was rejected.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

type TrackingService struct {
	interactionRepo *repository.InteractionRepository
	buffer          *tracker.Tracker
}

func NewTrackingService(interactionRepo *repository.InteractionRepository, cfg *config.Config) *TrackingService {
	s := &TrackingService{interactionRepo: interactionRepo}
	s.buffer = tracker.New(
		tracker.SenderFunc(s.persistBatch),
		cfg.Tracking.MaxBatchSize,
		time.Duration(cfg.Tracking.FlushIntervalMs)*time.Millisecond,
	)
	return s
}

// TrackOne accepts a single interaction. Persistence is write-behind
// through the batching buffer; the caller gets an ack once the entry is
// validated and queued.
func (s *TrackingService) TrackOne(userID string, entry dto.TrackEntry) (*dto.TrackResponse, error) {
	normalized, msg := validateEntry(entry)
	if msg != "" {
		return nil, &ValidationError{Messages: []string{msg}}
	}

	s.buffer.Track(tracker.Entry{
		UserID:   userID,
		PostID:   normalized.postID,
		Type:     normalized.kind,
		Metadata: normalized.metadata,
	})

	return &dto.TrackResponse{Success: true, Tracked: 1}, nil
}

// TrackBatch validates every entry, stores the valid ones in one insert,
// and reports the invalid ones by index. All invalid means nothing is
// written and the whole request fails.
func (s *TrackingService) TrackBatch(userID string, entries []dto.TrackEntry) (*dto.TrackResponse, error) {
	if len(entries) == 0 {
		return nil, &ValidationError{Messages: []string{msgNoInteractions}}
	}

	var rows []*model.Interaction
	var errs []string
	for i, entry := range entries {
		normalized, msg := validateEntry(entry)
		if msg != "" {
			errs = append(errs, fmt.Sprintf("[%d] %s", i, msg))
			continue
		}
		rows = append(rows, &model.Interaction{
			UserID:   userID,
			PostID:   normalized.postID,
			Type:     normalized.kind,
			Metadata: normalized.metadata,
		})
	}

	if len(rows) == 0 {
		return nil, &ValidationError{Messages: errs}
	}

	if err := s.interactionRepo.BatchCreate(rows); err != nil {
		return nil, err
	}

	return &dto.TrackResponse{Success: true, Tracked: len(rows), Errors: errs}, nil
}

// Flush drains the write-behind buffer immediately.
func (s *TrackingService) Flush() {
	s.buffer.Flush()
}

// Close flushes and stops the buffer. Call on shutdown.
func (s *TrackingService) Close() {
	s.buffer.Close()
}

func (s *TrackingService) persistBatch(entries []tracker.Entry) error {
	rows := make([]*model.Interaction, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &model.Interaction{
			UserID:    e.UserID,
			PostID:    e.PostID,
			Type:      e.Type,
			Metadata:  e.Metadata,
			CreatedAt: e.OccurredAt,
		})
	}
	return s.interactionRepo.BatchCreate(rows)
}

type normalizedEntry struct {
	postID   string
	kind     string
	metadata map[string]interface{}
}

// validateEntry checks one entry and returns it normalized, or the
// reason it was rejected.
func validateEntry(entry dto.TrackEntry) (normalizedEntry, string) {
	var out normalizedEntry

	postID, ok := entry.PostID.(string)
	if !ok || postID == "" {
		return out, msgPostIDRequired
	}

	kind, ok := entry.InteractionType.(string)
	if !ok || !model.IsValidInteractionType(kind) {
		return out, msgBadType
	}

	var metadata map[string]interface{}
	if len(entry.Metadata) > 0 && string(entry.Metadata) != "null" {
		if err := json.Unmarshal(entry.Metadata, &metadata); err != nil {
			return out, msgBadMetadata
		}
	}

	out.postID = postID
	out.kind = kind
	out.metadata = metadata
	return out, ""
}
