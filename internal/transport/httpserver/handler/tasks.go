package handler

import (
	"net/http"
	"time"

	tasksdomain "family-planner/internal/domain/tasks"
)

type createTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	AssigneeID    string `json:"assignee_id"`
	AssigneeColor string `json:"assignee_color"`
	CreatorColor  string `json:"creator_color"`
	Deadline      string `json:"deadline"`
}

type updateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	AssigneeID    *string `json:"assignee_id"`
	AssigneeColor *string `json:"assignee_color"`
	Deadline      *string `json:"deadline"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type taskResponse struct {
	ID            string    `json:"id"`
	FamilyID      string    `json:"family_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AssigneeID    string    `json:"assignee_id"`
	AssigneeColor string    `json:"assignee_color"`
	CreatorID     string    `json:"creator_id"`
	CreatorColor  string    `json:"creator_color"`
	ApproverID    *string   `json:"approver_id"`
	Deadline      string    `json:"deadline"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type taskStatsResponse struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Approved   int64 `json:"approved"`
	Total      int64 `json:"total"`
}

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.Tasks.ListTasks(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "tasks.list: list tasks failed", err, "user_id", user.ID)
		return
	}

	response := make([]taskResponse, 0, len(list))
	for i := range list {
		response = append(response, toTaskResponse(&list[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	deadline, err := parseDateRequired(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "deadline must be YYYY-MM-DD")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.CreateTask(r.Context(), user.ID, tasksdomain.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		AssigneeColor: req.AssigneeColor,
		CreatorColor:  req.CreatorColor,
		Deadline:      deadline,
	})
	if err != nil {
		h.fail(w, "tasks.create: create task failed", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handlers) TaskStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.Tasks.Stats(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "tasks.stats: count tasks failed", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, taskStatsResponse{
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		Approved:   stats.Approved,
		Total:      stats.Total,
	})
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, ok := uuidParam(r, "task_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}

	task, err := h.Tasks.GetTask(r.Context(), user.ID, taskID)
	if err != nil {
		h.fail(w, "tasks.get: get task failed", err, "user_id", user.ID, "task_id", taskID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	deadline, err := parseDateParam(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "deadline must be YYYY-MM-DD")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, ok := uuidParam(r, "task_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}

	task, err := h.Tasks.UpdateTask(r.Context(), user.ID, taskID, tasksdomain.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		AssigneeColor: req.AssigneeColor,
		Deadline:      deadline,
	})
	if err != nil {
		h.fail(w, "tasks.update: update task failed", err, "user_id", user.ID, "task_id", taskID)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, ok := uuidParam(r, "task_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "task not found")
		return
	}

	task, err := h.Tasks.ChangeStatus(r.Context(), user.ID, taskID, tasksdomain.Status(req.Status))
	if err != nil {
		h.fail(w, "tasks.status: change status failed", err, "user_id", user.ID, "task_id", taskID, "status", req.Status)
		return
	}
	h.metrics.TaskStatusChanged(string(task.Status))

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func toTaskResponse(task *tasksdomain.Task) taskResponse {
	return taskResponse{
		ID:            task.ID,
		FamilyID:      task.FamilyID,
		Title:         task.Title,
		Description:   task.Description,
		AssigneeID:    task.AssigneeID,
		AssigneeColor: task.AssigneeColor,
		CreatorID:     task.CreatorID,
		CreatorColor:  task.CreatorColor,
		ApproverID:    task.ApproverID,
		Deadline:      task.Deadline.Format(tasksdomain.DeadlineLayout),
		Status:        string(task.Status),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}
