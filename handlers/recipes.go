package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"

	cachekeys "recipe-service/cache"
	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
)

const recipesKind = "recipes"

// RecipeHandler serves the REST and legacy recipe endpoints
type RecipeHandler struct {
	store *database.Store
	cache cache.Cache
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(store *database.Store, cache cache.Cache) *RecipeHandler {
	return &RecipeHandler{
		store: store,
		cache: cache,
	}
}

// recipeRefs is what reference validation needs from the store
type recipeRefs interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	MissingStepIDs(ctx context.Context, ids []int) ([]int, error)
	MissingIngredientIDs(ctx context.Context, ids []int) ([]int, error)
}

// GetRecipes handles GET /recipes and GET /recipe/ - list recipes
func (h *RecipeHandler) GetRecipes(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing recipes")

	cacheKey := cachekeys.ListKey(recipesKind)
	unfiltered := r.URL.RawQuery == ""
	if unfiltered {
		if cached, err := h.cache.Get(cacheKey); err == nil {
			if body, ok := cachekeys.Bytes(cached); ok {
				logRequest(ctx, "debug", "Serving from cache")
				w.Header().Set("Content-Type", "application/json")
				w.Write(body)
				return
			}
		}
	}

	search, orderBy, limit, offset := listQuery(r)
	recipes, total, err := h.store.ListRecipes(ctx, models.ListQuery{Search: search, OrderBy: orderBy, Limit: limit, Offset: offset})
	if err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	response, _ := json.Marshal(recipes)
	if unfiltered {
		h.cache.Set(cacheKey, response, cachekeys.ListTTL)
	}

	logRequest(ctx, "info", "Recipes retrieved successfully", zap.Int("count", len(recipes)), zap.Int("total", total))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// GetRecipe handles GET /recipes/{id} and GET /recipe/{id}/detail/
func (h *RecipeHandler) GetRecipe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(ctx, w, r, "recipe")
	if !ok {
		return
	}

	recipe, err := h.store.GetRecipe(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	logRequest(ctx, "info", "Recipe retrieved successfully", zap.Int("recipe_id", id))
	writeJSON(w, http.StatusOK, recipe)
}

// CreateRecipe handles POST /recipes and POST /recipe/add/
func (h *RecipeHandler) CreateRecipe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}

	var req models.RecipeRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	recipe := &models.Recipe{}
	if err := prepareRecipe(ctx, h.store, recipe, req, forms.ModeCreate); err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}
	if err := h.store.CreateRecipe(ctx, recipe); err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "Recipe created successfully", zap.Int("recipe_id", recipe.ID))
	writeJSON(w, http.StatusCreated, recipe)
}

// UpdateRecipe handles PUT/PATCH /recipes/{id} and PUT /recipe/{id}/change/
func (h *RecipeHandler) UpdateRecipe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "recipe")
	if !ok {
		return
	}

	var req models.RecipeRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	recipe, err := h.store.GetRecipe(ctx, id)
	if err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}
	if err := prepareRecipe(ctx, h.store, recipe, req, modeFor(r)); err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}
	if err := h.store.UpdateRecipe(ctx, recipe); err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "Recipe updated successfully", zap.Int("recipe_id", id))
	writeJSON(w, http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /recipes/{id} and DELETE /recipe/{id}/delete/
func (h *RecipeHandler) DeleteRecipe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !requireChange(ctx, w) {
		return
	}
	id, ok := parseID(ctx, w, r, "recipe")
	if !ok {
		return
	}

	if err := h.store.DeleteRecipe(ctx, id); err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	h.cache.Delete(cachekeys.ListKey(recipesKind))

	logRequest(ctx, "info", "Recipe deleted successfully", zap.Int("recipe_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// RecipesByUser handles GET /recipe-by-user/{user}/ - the recipes of a user
// given by numeric id or by username
func (h *RecipeHandler) RecipesByUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["user"]

	user, err := lookupUser(ctx, h.store, key)
	if err != nil {
		writeError(ctx, w, err, "User")
		return
	}

	recipes, err := h.store.ListRecipesByUser(ctx, user.ID)
	if err != nil {
		writeError(ctx, w, err, "Recipe")
		return
	}

	logRequest(ctx, "info", "Recipes by user retrieved", zap.Int("user_id", user.ID), zap.Int("count", len(recipes)))
	writeJSON(w, http.StatusOK, recipes)
}

type userLookup interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// lookupUser resolves key as an id when it is numeric, else as a username
func lookupUser(ctx context.Context, store userLookup, key string) (*models.User, error) {
	if id, err := strconv.Atoi(key); err == nil {
		return store.GetUserByID(ctx, id)
	}
	return store.GetUserByUsername(ctx, key)
}

// prepareRecipe validates req and applies it to recipe. Absent fields keep
// their current value; an explicit null owner clears it.
func prepareRecipe(ctx context.Context, refs recipeRefs, recipe *models.Recipe, req models.RecipeRequest, mode forms.Mode) error {
	cleaned, errs := forms.RecipePayload{RecipeRequest: req}.Clean(mode)
	if err := checkRecipeRefs(ctx, refs, cleaned.RecipeRequest, &errs); err != nil {
		return err
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if cleaned.Name != nil {
		recipe.Name = *cleaned.Name
	}
	if cleaned.User.Set {
		recipe.UserID = cleaned.User.Value
	}
	if cleaned.Steps != nil {
		recipe.Steps = *cleaned.Steps
	}
	if cleaned.Ingredients != nil {
		recipe.Ingredients = *cleaned.Ingredients
	}
	return nil
}

// checkRecipeRefs adds an error for every owner, step or ingredient id
// that does not exist
func checkRecipeRefs(ctx context.Context, refs recipeRefs, req models.RecipeRequest, errs *forms.Errors) error {
	if req.User.Value != nil {
		owner := *req.User.Value
		if _, err := refs.GetUserByID(ctx, owner); err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				return err
			}
			*errs = append(*errs, forms.MissingReferences(forms.FieldUser, []int{owner})...)
		}
	}

	if req.Steps != nil {
		missing, err := refs.MissingStepIDs(ctx, *req.Steps)
		if err != nil {
			return err
		}
		*errs = append(*errs, forms.MissingReferences(forms.FieldSteps, missing)...)
	}

	if req.Ingredients != nil {
		missing, err := refs.MissingIngredientIDs(ctx, *req.Ingredients)
		if err != nil {
			return err
		}
		*errs = append(*errs, forms.MissingReferences(forms.FieldIngredients, missing)...)
	}
	return nil
}
