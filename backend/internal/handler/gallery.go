package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/utils"
	"github.com/aljannat-dev/aljannat/shared/validation"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", images)
}

func (h *Handler) GetImagesByCategory(w http.ResponseWriter, r *http.Request) {
	category := domain.ImageCategory(chi.URLParam(r, "category"))
	images, err := h.gallery.ByCategory(r.Context(), category)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", images)
}

func (h *Handler) GetRandomImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.Random(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", images)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.parseImageForm(w, r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseImage(img)

	category, _ := formValue(r, "category")
	saved, err := h.gallery.Create(r.Context(), domain.ImageCategory(category), img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", saved)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Image deleted", nil)
}
