package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	userdomain "mon-panier-local/internal/domain/user"
	"mon-panier-local/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsProducer bool      `json:"is_producer"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(account *userdomain.User) userResponse {
	return userResponse{
		ID:         account.ID,
		Email:      account.Email,
		Username:   account.Username,
		IsProducer: account.IsProducer,
		CreatedAt:  account.CreatedAt,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	account, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrInvalidEmail),
			errors.Is(err, userdomain.ErrWeakPassword),
			errors.Is(err, userdomain.ErrEmailTaken),
			errors.Is(err, userdomain.ErrConflict):
			h.log.BusinessError("auth.register: validation failed", err)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("auth.register: register failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    toUserResponse(account),
		"message": "registration successful",
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	token, account, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.InternalError("auth.login: login failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(account),
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	account, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.InternalError("auth.me: get user failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(account))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	account, err := h.Users.Update(r.Context(), userdomain.UpdateInput{
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrInvalidEmail),
			errors.Is(err, userdomain.ErrEmailTaken),
			errors.Is(err, userdomain.ErrConflict):
			h.log.BusinessError("auth.update_me: validation failed", err, "user_id", userID)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, userdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			h.log.InternalError("auth.update_me: update failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(account))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" || req.NewPasswordConfirm == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		writeError(w, http.StatusBadRequest, "new passwords do not match")
		return
	}

	err := h.Users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrWrongPassword), errors.Is(err, userdomain.ErrWeakPassword):
			h.log.BusinessError("auth.change_password: validation failed", err, "user_id", userID)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("auth.change_password: change failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req deleteAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required to confirm deletion")
		return
	}

	// The producer profile cascades with the account, so cached producer
	// entries must go too.
	profile, profileErr := h.Producers.GetByUser(r.Context(), userID)

	if err := h.Users.DeleteAccount(r.Context(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, userdomain.ErrWrongPassword):
			h.log.BusinessError("auth.delete_account: wrong password", err, "user_id", userID)
			writeError(w, http.StatusBadRequest, "wrong password")
		case errors.Is(err, userdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			h.log.InternalError("auth.delete_account: delete failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if profileErr == nil {
		h.cache.invalidateProducers(r.Context(), profile.ID)
	}

	h.log.Info("auth: account deleted", "user_id", userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
