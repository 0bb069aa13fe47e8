package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/config"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/middleware"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/utils"
)

// AuthHandler bundles the dependencies of the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *service.UserService
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, users *service.UserService, tokens *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"` // CLIENT | ORGANIZER
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type profileReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
type passwordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		IsActive:  u.IsActive,
	}
}

// issuePair mints an access/refresh pair and persists the refresh hash.
func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw goes to the client once
	}, nil
}

// Register creates an account and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      model.ParseRole(req.Role),
	})
	if err != nil {
		return fail(c, err)
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return fail(c, err)
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token: the presented token is revoked and
// a brand-new pair is returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return fail(c, err)
	}
	u, err := h.Users.Get(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account disabled"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, err)
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Get(ctx, actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// UpdateProfile changes the authenticated user's name and phone.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, actor.ID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// ChangePassword replaces the password after checking the current one,
// then revokes every session of the user.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.ChangePassword(ctx, actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, actor.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
