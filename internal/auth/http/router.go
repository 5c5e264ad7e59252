package http

import (
	"net/http"
	"time"

	"github.com/dcastellanos/userboard/internal/auth/service"
	commonhttp "github.com/dcastellanos/userboard/internal/common/http"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/user/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type Handler struct {
	auth *service.AuthService
	log  *logger.Logger
}

func NewHandler(auth *service.AuthService, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{auth: auth, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/register",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.register)))
	mux.HandleFunc("/api/login",
		commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.login)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  toUserPayload(result.User),
	})
}

func toUserPayload(a domain.Account) userPayload {
	return userPayload{
		ID:       int64(a.ID),
		Username: a.Username,
		Email:    a.Email,
	}
}
