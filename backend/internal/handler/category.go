package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/utils"
	"github.com/aljannat-dev/aljannat/shared/validation"
)

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.category.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	img, err := h.parseImageForm(w, r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseImage(img)

	name, _ := formValue(r, "name")
	category, err := h.category.Create(r.Context(), name, img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.category.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Category deleted", nil)
}
