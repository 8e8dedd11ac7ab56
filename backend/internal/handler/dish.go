package handler

import (
	"net/http"
	"strconv"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/utils"
	"github.com/aljannat-dev/aljannat/shared/validation"
)

var (
	errDishFieldsRequired = errors.Validation("Name, price, description and category are required")
	errInvalidCategoryId  = errors.Validation("Invalid category")
)

func (h *Handler) GetDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.dish.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", dishes)
}

func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	img, err := h.parseImageForm(w, r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer validation.CloseImage(img)

	upd, err := parseDishForm(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if upd.Name == nil || upd.Description == nil || upd.Price == nil || upd.CategoryId == nil {
		utils.WriteErrorAndStatusCode(w, errDishFieldsRequired)
		return
	}
	dish := domain.Dish{
		Name:        *upd.Name,
		Description: *upd.Description,
		Price:       *upd.Price,
		CategoryId:  *upd.CategoryId,
	}

	saved, err := h.dish.Create(r.Context(), dish, img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", saved)
}

func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
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

	upd, err := parseDishForm(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	updated, err := h.dish.Update(r.Context(), id, upd, img)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "", updated)
}

func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.dish.Delete(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, "Dish deleted", nil)
}

// parseDishForm collects the dish fields that were sent. Empty values count
// as not sent so a partial edit form doesn't blank existing data.
func parseDishForm(r *http.Request) (domain.DishUpdate, error) {
	var upd domain.DishUpdate
	if name, ok := formValue(r, "name"); ok && name != "" {
		upd.Name = &name
	}
	if desc, ok := formValue(r, "description"); ok && desc != "" {
		upd.Description = &desc
	}
	if raw, ok := formValue(r, "price"); ok && raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return upd, err
		}
		upd.Price = &price
	}
	if raw, ok := formValue(r, "category"); ok && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return upd, errInvalidCategoryId
		}
		upd.CategoryId = &id
	}
	return upd, nil
}
