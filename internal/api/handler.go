package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskhub/internal/domain"
	"taskhub/internal/service"
)

// Handler wires the JSON endpoints to the services.
type Handler struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Tasks  *service.TaskService
	Logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(auth *service.AuthService, users *service.UserService, tasks *service.TaskService, logger *slog.Logger) *Handler {
	return &Handler{
		Auth:   auth,
		Users:  users,
		Tasks:  tasks,
		Logger: logger.With("component", "api"),
	}
}

// Routes builds the API router. authn wraps the endpoints that require an
// authenticated principal; health and the auth endpoints stay public.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/{id}", h.getUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)
			r.Get("/{id}", h.getTask)
			r.Put("/{id}", h.updateTask)
			r.Patch("/{id}/status", h.updateTaskStatus)
			r.Delete("/{id}", h.deleteTask)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON parses the request body, turning malformed JSON into a
// validation error rather than a bare 400.
func (h *Handler) decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("encode response", "error", err)
	}
}

func (h *Handler) error(w http.ResponseWriter, err error) {
	writeError(w, h.Logger, err)
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("invalid id %q", raw)
	}
	return id, nil
}

// pageFromRequest reads skip/limit query parameters.
func pageFromRequest(r *http.Request) (domain.PageRequest, error) {
	page := domain.PageRequest{Limit: domain.DefaultLimit}
	q := r.URL.Query()
	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return page, domain.ErrValidation("invalid skip %q", raw)
		}
		page.Skip = skip
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > domain.MaxLimit {
			return page, domain.ErrValidation("invalid limit %q", raw)
		}
		page.Limit = limit
	}
	return page, nil
}
