package handlers

import (
	"net/http"

	"mytodos/internal/models"
	"mytodos/internal/theme"
)

// TaskItemData is the data for the task_item.html partial.
type TaskItemData struct {
	Task    models.Task
	Palette theme.Palette
}

// ListTasks returns the current task list as JSON, newest first.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	if !h.requireReady(w) {
		return
	}
	h.respondJSON(w, http.StatusOK, h.tasks.Snapshot())
}

// CreateTask adds a task from the "title" form value. A blank title is ignored.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	if !h.requireReady(w) {
		return
	}

	task, ok := h.tasks.Create(r.FormValue("title"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.renderPartial(w, "task_item.html", h.itemData(task))
}

// ToggleTask toggles the completion status of a task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if !h.requireReady(w) {
		return
	}

	task, ok := h.tasks.ToggleCompleted(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.renderPartial(w, "task_item.html", h.itemData(task))
}

// DeleteTask deletes a task. Deleting an unknown id succeeds without effect.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if !h.requireReady(w) {
		return
	}

	h.tasks.Delete(id)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) itemData(task models.Task) TaskItemData {
	return TaskItemData{Task: task, Palette: h.palette()}
}
