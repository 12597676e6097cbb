package courses

import (
	"encoding/json"
	"fmt"

	"brokee-go/internal/database"
	"go.uber.org/zap"
)

const keyCompletedModules = "completed_modules"

// CompletionRecorder receives gamification notifications when a module is
// finished for the first time.
type CompletionRecorder interface {
	RecordCourseCompletion() (int, error)
}

// Service tracks which course modules the learner has finished.
type Service struct {
	logger   *zap.Logger
	store    *database.BlobStore
	recorder CompletionRecorder
}

// Progress summarizes course completion for the UI.
type Progress struct {
	CompletedModuleIDs []int `json:"completedModuleIds"`
	CompletedCount     int   `json:"completedCount"`
	TotalModules       int   `json:"totalModules"`
}

// NewService creates a course progress service.
func NewService(logger *zap.Logger, store *database.BlobStore, recorder CompletionRecorder) *Service {
	return &Service{
		logger:   logger.Named("courses"),
		store:    store,
		recorder: recorder,
	}
}

func (s *Service) completedIDs() ([]int, error) {
	value, ok, err := s.store.Get(keyCompletedModules)
	if err != nil || !ok {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

// CompleteModule marks module id as finished. Re-completing a module is
// idempotent and accrues nothing.
func (s *Service) CompleteModule(id int) (*Progress, error) {
	if _, ok := FindModule(id); !ok {
		return nil, fmt.Errorf("unknown module %d", id)
	}

	ids, err := s.completedIDs()
	if err != nil {
		return nil, err
	}
	for _, done := range ids {
		if done == id {
			return s.CurrentProgress()
		}
	}

	ids = append(ids, id)
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completed modules: %w", err)
	}
	if err := s.store.Set(keyCompletedModules, string(raw)); err != nil {
		return nil, err
	}

	count, err := s.recorder.RecordCourseCompletion()
	if err != nil {
		return nil, err
	}
	s.logger.Info("Module completed",
		zap.Int("module_id", id),
		zap.Int("completed_courses", count))

	return s.CurrentProgress()
}

// CurrentProgress returns the learner's completion snapshot.
func (s *Service) CurrentProgress() (*Progress, error) {
	ids, err := s.completedIDs()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return &Progress{
		CompletedModuleIDs: ids,
		CompletedCount:     len(ids),
		TotalModules:       TotalModules(),
	}, nil
}
