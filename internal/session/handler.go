package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/fkhayef/attendly/pkg/middleware"
	"github.com/fkhayef/attendly/pkg/response"
)

// Handler handles HTTP requests for sessions and attendance
type Handler struct {
	service *Service
}

// NewHandler creates a new session handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateSession handles POST /session/create-session
// @Summary      Create an attendance session
// @Description  Create a session for a group the calling admin owns
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body CreateSessionRequest true "Session creation request"
// @Success      201 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /session/create-session [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == 0 || req.ExpiryTime == "" {
		response.BadRequest(w, "groupId and expiryTime are required")
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.ExpiryTime)
	if err != nil {
		response.BadRequest(w, "expiryTime must be an RFC 3339 timestamp")
		return
	}

	session, err := h.service.Create(r.Context(), claims.UserID, req.GroupID, expiry)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrExpiryNotFuture):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrNotGroupOwner):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to create session")
		}
		return
	}

	response.JSON(w, http.StatusCreated, session.ToResponse())
}

// GetSessions handles GET /session/get-sessions
func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	sessions, err := h.service.ListByCreator(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNoSessions) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list sessions")
		return
	}

	sessionResponses := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		sessionResponses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"sessions": sessionResponses})
}

// JoinQR handles GET /session/{sessionId}/qr. It renders the session's join
// code as a PNG for display next to the sign-in sheet.
func (h *Handler) JoinQR(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.service.GetByID(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get session")
		return
	}

	png, err := qrcode.Encode(session.JoinCode, qrcode.Medium, 256)
	if err != nil {
		response.InternalError(w, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Mark handles POST /attendance/mark
// @Summary      Mark attendance
// @Description  Mark the caller attendant for a session, by ID or join code
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body MarkAttendanceRequest true "Session to mark"
// @Success      200 {object} response.APIResponse{data=MarkAttendanceResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /attendance/mark [post]
func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.service.Mark(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingSessionID), errors.Is(err, ErrGroupUnresolved):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotGroupMember), errors.Is(err, ErrSessionExpired):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrAlreadyMarked):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to mark attendance")
		}
		return
	}

	response.JSON(w, http.StatusOK, &MarkAttendanceResponse{
		Message:    "Attendance marked successfully",
		ExpiryTime: session.ExpiryTime.Format("2006-01-02T15:04:05Z"),
	})
}

// Attendees handles GET /attendance/{sessionId}
func (h *Handler) Attendees(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	attendees, err := h.service.Attendees(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get attendees")
		return
	}

	if attendees == nil {
		attendees = []*Attendee{}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"attendances": attendees})
}

// UserSessions handles GET /attendance/user/{userId}
func (h *Handler) UserSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	sessions, err := h.service.SessionsForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get user sessions")
		return
	}

	if sessions == nil {
		sessions = []*UserSession{}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// GroupSummary handles GET /attendance/group-wise-data/{groupId}
func (h *Handler) GroupSummary(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	summaries, err := h.service.GroupSummary(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get group attendance")
		return
	}

	if summaries == nil {
		summaries = []*SessionSummary{}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"groupAttendance": summaries})
}
