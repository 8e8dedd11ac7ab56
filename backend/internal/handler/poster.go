package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/api"
	"github.com/aljannat-dev/aljannat/shared/utils"
)

func (h *Handler) GetPosters(w http.ResponseWriter, r *http.Request) {
	posters, err := h.poster.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", posters)
}

func (h *Handler) CreatePoster(w http.ResponseWriter, r *http.Request) {
	var body api.PosterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	poster, err := h.poster.Create(r.Context(), body.Link)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", poster)
}

func (h *Handler) UpdatePoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.PosterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	poster, err := h.poster.Update(r.Context(), id, body.Link)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", poster)
}

func (h *Handler) DeletePoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.poster.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Poster deleted", nil)
}
