package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
	"github.com/vncsmyrnk/contentapi/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookiePolicy
}

func NewAuthHandler(authService ports.AuthService, cookies CookiePolicy) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
}

type registerResponse struct {
	Message string      `json:"message"`
	UserID  uuid.UUID   `json:"userId"`
	Role    domain.Role `json:"role"`
}

// Register godoc
// @Summary      Registers a new user
// @Description  Creates a user account. A requested role of `admin` is downgraded to `viewer`.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
		Role:    user.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Role    domain.Role `json:"role"`
}

// Login godoc
// @Summary      Logs a user in
// @Description  Sets the `accessToken` and `refreshToken` cookies. Tokens are never returned in the body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.set(w, accessTokenCookie, res.AccessToken, h.authService.AccessTTL())
	h.cookies.set(w, refreshTokenCookie, res.RefreshToken, h.authService.RefreshTTL())

	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Role: res.Role})
}

// Refresh godoc
// @Summary      Refreshes the access token
// @Description  Creates a new access token cookie based on the refresh token cookie. The refresh token is not rotated.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, r, domain.ErrNoSession)
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			h.cookies.clear(w)
		}
		writeError(w, r, err)
		return
	}

	h.cookies.set(w, accessTokenCookie, accessToken, h.authService.AccessTTL())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Token refreshed"})
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Revokes the refresh token and clears both cookies.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to revoke refresh token")
		}
	}

	h.cookies.clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me godoc
// @Summary      Returns the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	profile, err := h.authService.Me(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
