// internal/api/websocket_handlers.go
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/solidwrite/pseo/internal/utils"
)

// ProgressMessage is the frame pushed to export stream subscribers.
type ProgressMessage struct {
	Type      string                  `json:"type"` // "progress" or "done"
	Data      services.ProgressUpdate `json:"data"`
	Timestamp time.Time               `json:"timestamp"`
}

// ExportProgressSocket streams the progress of an export task. The current
// state is sent first; the stream ends with a "done" frame once the task
// completes or fails.
func (h *Handler) ExportProgressSocket(c *gin.Context) {
	taskID := c.Param("task_id")
	tracker, exists := h.Progress.GetTracker(taskID)
	if !exists {
		h.Response.NotFound(c, "task")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", map[string]interface{}{
			"task_id": taskID,
			"error":   err.Error(),
		})
		return
	}

	client := newWebSocketClient(conn, taskID)
	defer client.Close()

	go client.readLoop()
	streamProgress(client, tracker, wsPingPeriod)
}

// streamProgress forwards tracker updates to client until the task finishes
// or the client goes away.
func streamProgress(client *WebSocketClient, tracker *services.ProgressTracker, pingPeriod time.Duration) {
	updates := tracker.Subscribe()
	defer tracker.Unsubscribe(updates)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case update := <-updates:
			if update.Status != services.TaskRunning {
				finishStream(client, update)
				return
			}
			if err := client.send(ProgressMessage{Type: "progress", Data: update, Timestamp: time.Now()}); err != nil {
				return
			}

		case <-tracker.Done:
			// broadcasts drop on a full buffer, so the final state is read
			// from the tracker rather than the channel
			finishStream(client, tracker.Snapshot())
			return

		case <-ticker.C:
			if err := client.ping(); err != nil {
				return
			}

		case <-client.Closed():
			return
		}
	}
}

func finishStream(client *WebSocketClient, final services.ProgressUpdate) {
	if err := client.send(ProgressMessage{Type: "done", Data: final, Timestamp: time.Now()}); err != nil {
		return
	}
	client.closeNormally(final.Status)
}
