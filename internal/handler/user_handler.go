package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-vidtube/internal/model"
	"go-vidtube/internal/service"
)

// UserHandler serves the account and session routes under /users.
type UserHandler struct {
	auth    *service.AuthService
	users   *service.UserService
	uploads *Uploads
	cookies SessionCookies
}

func NewUserHandler(auth *service.AuthService, users *service.UserService, uploads *Uploads, cookies SessionCookies) *UserHandler {
	return &UserHandler{auth: auth, users: users, uploads: uploads, cookies: cookies}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := h.uploads.read(w, r, "avatar", "coverImage")
	if err != nil {
		writeError(w, err)
		return
	}
	defer form.remove()

	user, err := h.auth.Register(r.Context(), model.RegisterInput{
		FullName:       form.fields.get("fullName"),
		Email:          form.fields.get("email"),
		Username:       form.fields.get("username"),
		Password:       form.fields["password"],
		AvatarPath:     form.file("avatar"),
		CoverImagePath: form.file("coverImage"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), model.LoginRequest{
		Username: fields.get("username"),
		Email:    fields.get("email"),
		Password: fields["password"],
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.set(w, model.TokenPair{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken})
	writeSuccess(w, http.StatusOK, result, "user logged in successfully")
}

// RefreshToken reads the refresh token from its cookie, falling back to the body.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = strings.TrimSpace(cookie.Value)
	}
	if token == "" {
		fields, err := readFields(r)
		if err != nil {
			writeError(w, err)
			return
		}
		token = fields.get("refreshToken")
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.set(w, pair)
	writeSuccess(w, http.StatusOK, pair, "access token refreshed")
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}

	h.cookies.clear(w)
	writeSuccess(w, http.StatusOK, map[string]any{}, "user logged out")
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, model.ChangePasswordRequest{
		OldPassword: fields["oldPassword"],
		NewPassword: fields["newPassword"],
	}); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "password changed successfully")
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user.Public(), "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.users.UpdateAccount(r.Context(), user.ID, model.UpdateAccountRequest{
		FullName: fields.get("fullName"),
		Email:    fields.get("email"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.users.UpdateAvatar, "avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage, "cover image updated successfully")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, userID string, localPath string) (model.PublicUser, error), message string) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	form, err := h.uploads.read(w, r, field)
	if err != nil {
		writeError(w, err)
		return
	}
	defer form.remove()

	updated, err := update(r.Context(), user.ID, form.file(field))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated, message)
}

func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.ChannelProfile(r.Context(), chi.URLParam(r, "username"), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile, "user channel fetched successfully")
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.users.WatchHistory(r.Context(), user.ID, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, history, "watch history fetched successfully")
}
