package api

import (
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/domain"
)

// taskFilterFromRequest parses the list query parameters. Unknown enum
// values and malformed dates are rejected here, at the boundary.
func taskFilterFromRequest(r *http.Request) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	page, err := pageFromRequest(r)
	if err != nil {
		return filter, err
	}
	filter.Page = page

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := q.Get("assignee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, domain.ErrValidation("invalid assignee_id %q", raw)
		}
		filter.AssigneeID = &id
	}
	filter.Search = q.Get("search")
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domain.ErrValidation("invalid from date %q: expected RFC 3339", raw)
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domain.ErrValidation("invalid to date %q: expected RFC 3339", raw)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, domain.ErrValidation("to date must not be before from date")
	}

	return filter, nil
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := taskFilterFromRequest(r)
	if err != nil {
		h.error(w, err)
		return
	}

	tasks, total, err := h.Tasks.List(r.Context(), filter)
	if err != nil {
		h.error(w, err)
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}
	h.writeJSON(w, http.StatusOK, taskListResponse{Items: items, Total: total})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		h.error(w, err)
		return
	}

	task, err := h.Tasks.Create(r.Context(), domainReq)
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	task, err := h.Tasks.Get(r.Context(), id)
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	var req updateTaskRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		h.error(w, err)
		return
	}

	task, err := h.Tasks.Update(r.Context(), id, domainReq)
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	var req statusUpdateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		h.error(w, err)
		return
	}

	task, err := h.Tasks.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	if err := h.Tasks.Delete(r.Context(), id); err != nil {
		h.error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
