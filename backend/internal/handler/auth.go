package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/api"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	mw "github.com/aljannat-dev/aljannat/shared/middleware"
	"github.com/aljannat-dev/aljannat/shared/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.auth.Register(r.Context(), domain.RegistrationData{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     domain.Role(body.Role),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteOK(w, "OTP sent to email", nil)
}

func (h *Handler) ResendOtp(w http.ResponseWriter, r *http.Request) {
	var body api.ResendOtpRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.ResendOtp(r.Context(), body.Email); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteOK(w, "OTP sent to email", nil)
}

func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var body api.VerifyOtpRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.VerifyOtp(r.Context(), body.Email, body.Otp); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteOK(w, "Email verified", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	session, err := h.auth.Login(r.Context(), domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.SetCookie(w, h.accessCookie(session.Token, int(h.cfg.JwtTTL().Seconds())))

	utils.WriteOK(w, "Login successful", api.LoginResponse{
		AccessToken: session.Token,
		User:        api.NewUserResponse(session.User),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.accessCookie("", -1))
	utils.WriteOK(w, "Logged out", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteErrorAndStatusCode(w, errors.ErrUnauthenticated)
		return
	}
	utils.WriteOK(w, "", api.NewUserResponse(*user))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	email := chi.URLParam(r, "email")
	if err := h.auth.PromoteUser(r.Context(), email, domain.Role(body.Role)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteOK(w, "Role updated", nil)
}

func (h *Handler) accessCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     mw.AccessTokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
