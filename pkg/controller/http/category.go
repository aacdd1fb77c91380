package http

import (
	"net/http"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type createCategoryRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type updateCategoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
}

func categoryIDParam(r *http.Request) types.CategoryID {
	return types.CategoryID(chi.URLParam(r, "categoryID"))
}

func listCategoriesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := uc.Category.ListCategories(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, mapSlice(categories, toCategoryResponse))
	}
}

func createCategoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		c, err := uc.Category.CreateCategory(r.Context(), usecase.CategoryInput{
			ID:          types.CategoryID(req.ID),
			Title:       req.Title,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toCategoryResponse(c))
	}
}

func getCategoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := uc.Category.GetCategory(r.Context(), categoryIDParam(r))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCategoryResponse(c))
	}
}

func updateCategoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		c, err := uc.Category.UpdateCategory(r.Context(), categoryIDParam(r), usecase.CategoryUpdate{
			Title:       req.Title,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCategoryResponse(c))
	}
}

func deleteCategoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Category.DeleteCategory(r.Context(), categoryIDParam(r)); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
