package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/attendly/pkg/response"
)

// Handler handles HTTP requests for user administration
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for admin user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create-user", h.Create)
	r.Get("/get-users", h.List)
	r.Get("/get-user/{userEmail}", h.GetByEmail)
	r.Put("/update-user/{userEmail}", h.Update)
	r.Delete("/delete-user/{userEmail}", h.Delete)

	return r
}

// Create handles POST /admin/create-user
// @Summary      Create a user
// @Description  Admin creates a user with an explicit role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User to create"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /admin/create-user [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserExists):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to create user")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// List handles GET /admin/get-users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	userResponses := make([]*UserResponse, len(users))
	for i, u := range users {
		userResponses[i] = u.ToResponse()
	}

	response.JSON(w, http.StatusOK, userResponses)
}

// GetByEmail handles GET /admin/get-user/{userEmail}
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "userEmail")

	u, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}

// Update handles PUT /admin/update-user/{userEmail}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "userEmail")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.UpdateByEmail(r.Context(), email, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserExists):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to update user")
		}
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}

// Delete handles DELETE /admin/delete-user/{userEmail}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "userEmail")

	if err := h.service.DeleteByEmail(r.Context(), email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete user")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
