package handler

import (
	"net/http"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/utils"
	"github.com/aljannat-dev/aljannat/shared/validation"
)

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", items)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	img, err := h.parseImageForm(w, r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseImage(img)

	title, _ := formValue(r, "title")
	rawPrice, _ := formValue(r, "price")
	if title == "" || rawPrice == "" {
		utils.WriteErrorAndStatusCode(w, errors.Validation("Title and price are required"))
		return
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	points, _ := formValues(r, "points")

	saved, err := h.menu.Create(r.Context(), domain.MenuItem{Title: title, Price: price, Points: points}, img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", saved)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	img, err := h.parseImageForm(w, r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseImage(img)

	var upd domain.MenuItemUpdate
	if title, ok := formValue(r, "title"); ok && title != "" {
		upd.Title = &title
	}
	if raw, ok := formValue(r, "price"); ok && raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		upd.Price = &price
	}
	if values, ok := formValues(r, "points"); ok {
		points := domain.Points(values)
		upd.Points = &points
	}

	updated, err := h.menu.Update(r.Context(), id, upd, img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", updated)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.menu.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Item deleted", nil)
}
