package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/api"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/utils"
)

// Document returns a handler serving the named content document as-is.
func (h *Handler) Document(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.content.Document(name)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(doc)
	}
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var body api.ContactRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	_, err := h.contact.Submit(r.Context(), domain.ContactMessage{
		Name:    body.Name,
		Email:   body.Email,
		Message: body.Message,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Message sent successfully", nil)
}
