// internal/services/progress_service.go
package services

import (
	"sync"
	"time"
)

// Task states reported by a ProgressTracker.
const (
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// ProgressUpdate is one progress notification.
type ProgressUpdate struct {
	TaskID   string `json:"task_id"`
	Progress int    `json:"progress"` // percent, 0-100
	Message  string `json:"message"`
	Status   string `json:"status"`
}

// ProgressTracker follows one long-running task, such as a static export.
type ProgressTracker struct {
	TaskID      string
	Progress    int
	Message     string
	Status      string
	StartTime   time.Time
	UpdateTime  time.Time
	Subscribers map[chan ProgressUpdate]bool
	Done        chan struct{}
	mutex       sync.Mutex
}

// ProgressService owns every tracker.
type ProgressService struct {
	trackers map[string]*ProgressTracker
	mutex    sync.RWMutex
}

// NewProgressService creates an empty registry.
func NewProgressService() *ProgressService {
	return &ProgressService{
		trackers: make(map[string]*ProgressTracker),
	}
}

// CreateTracker registers a tracker for taskID, or returns the existing one.
func (s *ProgressService) CreateTracker(taskID string) *ProgressTracker {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if tracker, exists := s.trackers[taskID]; exists {
		return tracker
	}

	now := time.Now()
	tracker := &ProgressTracker{
		TaskID:      taskID,
		Message:     "queued",
		Status:      TaskRunning,
		StartTime:   now,
		UpdateTime:  now,
		Subscribers: make(map[chan ProgressUpdate]bool),
		Done:        make(chan struct{}),
	}

	s.trackers[taskID] = tracker
	return tracker
}

// GetTracker looks up a tracker.
func (s *ProgressService) GetTracker(taskID string) (*ProgressTracker, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tracker, exists := s.trackers[taskID]
	return tracker, exists
}

// snapshotLocked builds an update from the tracker state. Caller holds mutex.
func (t *ProgressTracker) snapshotLocked() ProgressUpdate {
	return ProgressUpdate{TaskID: t.TaskID, Progress: t.Progress, Message: t.Message, Status: t.Status}
}

// Snapshot returns the current state.
func (t *ProgressTracker) Snapshot() ProgressUpdate {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.snapshotLocked()
}

// broadcastLocked notifies subscribers without blocking on slow readers.
func (t *ProgressTracker) broadcastLocked() {
	update := t.snapshotLocked()
	for subscriber := range t.Subscribers {
		select {
		case subscriber <- update:
		default:
		}
	}
}

// UpdateProgress moves progress forward; it never goes backwards.
func (t *ProgressTracker) UpdateProgress(progress int, message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Status != TaskRunning {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress > t.Progress {
		t.Progress = progress
	}
	if message != "" {
		t.Message = message
	}
	t.UpdateTime = time.Now()
	t.broadcastLocked()
}

// Complete marks the task done. Later calls are ignored.
func (t *ProgressTracker) Complete(message string) {
	t.finish(TaskCompleted, message, 100)
}

// Fail marks the task failed. Later calls are ignored.
func (t *ProgressTracker) Fail(errorMsg string) {
	t.finish(TaskFailed, "failed: "+errorMsg, -1)
}

func (t *ProgressTracker) finish(status, message string, progress int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Status != TaskRunning {
		return
	}
	if progress >= 0 {
		t.Progress = progress
	}
	if message == "" {
		message = status
	}
	t.Message = message
	t.Status = status
	t.UpdateTime = time.Now()
	t.broadcastLocked()

	close(t.Done)
}

// Subscribe returns a channel that first receives the current state and
// then every later update.
func (t *ProgressTracker) Subscribe() chan ProgressUpdate {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subscriber := make(chan ProgressUpdate, 10)
	t.Subscribers[subscriber] = true
	subscriber <- t.snapshotLocked()

	return subscriber
}

// Unsubscribe removes and closes a subscriber channel.
func (t *ProgressTracker) Unsubscribe(subscriber chan ProgressUpdate) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Subscribers[subscriber] {
		delete(t.Subscribers, subscriber)
		close(subscriber)
	}
}

// CleanupCompletedTasks forgets finished tasks idle for longer than maxAge.
func (s *ProgressService) CleanupCompletedTasks(maxAge time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	for id, tracker := range s.trackers {
		tracker.mutex.Lock()
		finished := tracker.Status != TaskRunning
		old := now.Sub(tracker.UpdateTime) > maxAge
		tracker.mutex.Unlock()

		if finished && old {
			delete(s.trackers, id)
		}
	}
}
