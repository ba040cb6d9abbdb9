package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"authbuddy/internal/api/middleware"
	"authbuddy/internal/app/service"
	"authbuddy/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService   *service.AuthService
	cookieMaxAge  time.Duration
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, cookieMaxAge time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/verify", h.verify)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/profile", h.profile)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.setAuthCookie(w, resp.AccessToken)
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.setAuthCookie(w, resp.AccessToken)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

type verifyResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authService.VerifyToken(middleware.TokenFromCookie(r))
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, verifyResponse{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
		return
	}

	resp, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
