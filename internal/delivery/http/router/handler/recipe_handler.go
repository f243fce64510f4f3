package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"yumbook/internal/delivery/http/response"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RecipeHandler holds dependencies for recipe CRUD and discovery handlers.
type RecipeHandler struct {
	recipes usecase.RecipeUsecase
	logger  *slog.Logger
}

// NewRecipeHandler is the constructor for RecipeHandler, injected by Fx.
func NewRecipeHandler(recipes usecase.RecipeUsecase, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger,
	}
}

// queryInt parses an optional integer query parameter, falling back to
// def when absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return value
}

// recipeIDParam parses the :id path parameter.
func recipeIDParam(c echo.Context) (uuid.UUID, bool) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}

	return recipeID, true
}

// bindRecipeForm reads the multipart form fields shared by create and
// update. JSON array fields arrive as repeated form values.
func bindRecipeForm(c echo.Context) (*usecase.CreateRecipeInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	value := func(name string) string {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			return values[0]
		}

		return ""
	}

	input := &usecase.CreateRecipeInput{
		Name:                value("name"),
		Description:         value("description"),
		Instructions:        form.Value["instructions"],
		Cuisine:             value("cuisine"),
		Difficulty:          value("difficulty"),
		DietaryRestrictions: form.Value["dietary_restrictions"],
		Tags:                form.Value["tags"],
	}

	if raw := value("cooking_time"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil {
			input.CookingTime = minutes
		}
	}
	if raw := value("preparation_time"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil {
			input.PreparationTime = minutes
		}
	}
	if raw := value("servings"); raw != "" {
		if servings, err := strconv.Atoi(raw); err == nil {
			input.Servings = servings
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		// The usecase consumes the reader before returning, so closing
		// via the request body teardown is sufficient.
		input.Image = &usecase.ImageUpload{
			Filename: fileHeader.Filename,
			Content:  file,
		}
	}

	return input, nil
}

// Create stores a new recipe owned by the authenticated user.
func (h *RecipeHandler) Create(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	input, err := bindRecipeForm(c)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recipe form")
	}

	recipe, err := h.recipes.CreateRecipe(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, recipe, "Recipe created successfully")
}

// Get returns a single recipe by id.
func (h *RecipeHandler) Get(c echo.Context) error {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	recipe, err := h.recipes.GetRecipe(c.Request().Context(), recipeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipe, "")
}

// List returns a page of recipes, newest first.
func (h *RecipeHandler) List(c echo.Context) error {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 0)

	recipes, err := h.recipes.ListRecipes(c.Request().Context(), offset, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipes, "")
}

// ListMine returns the authenticated user's own recipes.
func (h *RecipeHandler) ListMine(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipes, err := h.recipes.ListOwnRecipes(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipes, "")
}

// Update applies a partial update to a recipe owned by the caller.
func (h *RecipeHandler) Update(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	form, err := bindRecipeForm(c)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recipe form")
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request().Context(), userID, recipeID, patchFromForm(c, form))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipe, "Recipe updated successfully")
}

// patchFromForm converts the flat form into a patch where only fields
// present in the request are set.
func patchFromForm(c echo.Context, form *usecase.CreateRecipeInput) *usecase.UpdateRecipeInput {
	patch := &usecase.UpdateRecipeInput{Image: form.Image}

	has := func(name string) bool {
		multipart, err := c.MultipartForm()
		if err != nil {
			return false
		}
		_, ok := multipart.Value[name]

		return ok
	}

	if has("name") {
		patch.Name = &form.Name
	}
	if has("description") {
		patch.Description = &form.Description
	}
	if has("instructions") {
		patch.Instructions = &form.Instructions
	}
	if has("cuisine") {
		patch.Cuisine = &form.Cuisine
	}
	if has("difficulty") {
		patch.Difficulty = &form.Difficulty
	}
	if has("cooking_time") {
		patch.CookingTime = &form.CookingTime
	}
	if has("preparation_time") {
		patch.PreparationTime = &form.PreparationTime
	}
	if has("servings") {
		patch.Servings = &form.Servings
	}
	if has("dietary_restrictions") {
		patch.DietaryRestrictions = &form.DietaryRestrictions
	}
	if has("tags") {
		patch.Tags = &form.Tags
	}

	return patch
}

// Delete removes a recipe owned by the caller.
func (h *RecipeHandler) Delete(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	if err := h.recipes.DeleteRecipe(c.Request().Context(), userID, recipeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Recipe deleted successfully")
}

// Search filters recipes by free text, cuisine, cooking time and tags.
func (h *RecipeHandler) Search(c echo.Context) error {
	input := &usecase.SearchRecipesInput{
		Query:   c.QueryParam("q"),
		Cuisine: c.QueryParam("cuisine"),
		Tags:    c.QueryParams()["tags"],
	}
	if raw := c.QueryParam("max_cooking_time"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil {
			input.MaxCookingTime = &minutes
		}
	}

	recipes, err := h.recipes.SearchRecipes(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipes, "")
}

// Trending returns the most liked recipes.
func (h *RecipeHandler) Trending(c echo.Context) error {
	limit := queryInt(c, "limit", 0)

	recipes, err := h.recipes.TrendingRecipes(c.Request().Context(), limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipes, "")
}

// Similar returns recipes sharing the cuisine of the given recipe.
func (h *RecipeHandler) Similar(c echo.Context) error {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	limit := queryInt(c, "limit", 0)

	recipes, err := h.recipes.SimilarRecipes(c.Request().Context(), recipeID, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, recipes, "")
}

// ShareQR renders a QR code PNG linking to the recipe's share page.
func (h *RecipeHandler) ShareQR(c echo.Context) error {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	png, err := h.recipes.ShareQR(c.Request().Context(), recipeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
