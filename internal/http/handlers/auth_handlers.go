package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/auth"
	mw "github.com/rogerio-castellano/order-desk/internal/http/middleware"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
)

// LoginHandler godoc
// @Summary Authenticate operator and return an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} auth.TokenPair
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Banned"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(creds); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	ip := mw.ClientIP(r)
	pair, err := authService.Login(creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if g := mw.BanGuard(); g != nil && g.Strike(ip, r.URL.Path) {
				writeError(w, http.StatusForbidden, "too many failed attempts, try again later")
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logging.WithContext(r.Context()).WithError(err).Error("login failed")
		writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	if g := mw.BanGuard(); g != nil {
		g.Reset(ip)
	}
	_ = writeJSON(w, http.StatusOK, pair)
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} auth.TokenPair
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing refresh token")
		return
	}

	pair, err := authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) || errors.Is(err, repo.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		logging.WithContext(r.Context()).WithError(err).Error("refresh failed")
		writeError(w, http.StatusInternalServerError, "could not refresh token")
		return
	}
	_ = writeJSON(w, http.StatusOK, pair)
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param body body RefreshRequest true "refresh token"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing refresh token")
		return
	}
	if err := authService.Logout(req.RefreshToken); err != nil {
		logging.WithContext(r.Context()).WithError(err).Warn("could not revoke refresh token")
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterAsAdminHandler godoc
// @Summary Create an operator account with a role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "User to create with role"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User exists"
// @Router /admin/users [post]
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error hashing password")
		return
	}

	created, err := userRepo.CreateUser(models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		logging.WithContext(r.Context()).WithError(err).Error("could not create user")
		writeError(w, http.StatusInternalServerError, "error creating user")
		return
	}

	_ = writeJSON(w, http.StatusCreated, UserResponse{ID: created.ID, Username: created.Username, Role: created.Role})
}

// GetPreferencesHandler godoc
// @Summary Current operator's panel preferences
// @Tags preferences
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Preferences
// @Router /me/preferences [get]
func GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	prefs, err := prefsRepo.Get(mw.GetUserID(r))
	if err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not load preferences")
		writeError(w, http.StatusInternalServerError, "could not load preferences")
		return
	}
	_ = writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferencesHandler godoc
// @Summary Save the theme flag and navigation state
// @Tags preferences
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param preferences body PreferencesRequest true "Preferences"
// @Success 200 {object} models.Preferences
// @Failure 400 {object} ValidationErrorsResponse
// @Router /me/preferences [put]
func UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	prefs := models.Preferences{UserID: mw.GetUserID(r), Theme: req.Theme, NavCollapsed: req.NavCollapsed}
	if err := prefsRepo.Save(prefs); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not save preferences")
		writeError(w, http.StatusInternalServerError, "could not save preferences")
		return
	}
	_ = writeJSON(w, http.StatusOK, prefs)
}
