package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhttp "github.com/dcastellanos/userboard/internal/common/http"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/user/domain"
	"github.com/dcastellanos/userboard/internal/user/service"
)

type accountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type updateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Handler struct {
	users *service.UserService
	log   *logger.Logger
}

// NewHandler serves the user-management routes. The caller is expected to
// wrap the returned handler with the bearer-token guard.
func NewHandler(users *service.UserService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{users: users, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users",
		commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(requestTimeout)(h.list)))
	mux.HandleFunc("/api/users/", commonhttp.WithTimeout(requestTimeout)(h.byID))
	return mux
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.users.List(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, accountResponse{
			ID:        int64(a.ID),
			Username:  a.Username,
			Email:     a.Email,
			CreatedAt: a.CreatedAt,
		})
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) byID(w http.ResponseWriter, r *http.Request) {
	id, ok := extractUserID(r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "user id must be a positive integer", "")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id domain.ID) {
	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update user failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	err := h.users.Update(r.Context(), service.UpdateInput{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "User updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id domain.ID) {
	if err := h.users.Delete(r.Context(), id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

func extractUserID(path string) (domain.ID, bool) {
	raw := strings.TrimPrefix(path, "/api/users/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return domain.ID(id), true
}
