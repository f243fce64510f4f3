package impl

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecipeService(store *fakeStore, images *fakeImageStore) usecase.RecipeUsecase {
	return NewRecipeService(RecipeServiceParams{
		TxManager:  &fakeTxManager{store: store},
		RecipeRepo: &fakeRecipeRepo{store: store},
		ImageStore: images,
		QRService:  stubQRService{},
		Config:     newStorageConfig(),
		Logger:     discardLogger(),
	})
}

func createRecipeInput(name string) *usecase.CreateRecipeInput {
	return &usecase.CreateRecipeInput{
		Name:         name,
		Description:  "A family favourite",
		Instructions: []string{"chop", "cook", "serve"},
		Cuisine:      "italian",
		Difficulty:   "easy",
		CookingTime:  30,
		Servings:     4,
		Tags:         []string{"comfort"},
	}
}

func seedRecipe(t *testing.T, svc usecase.RecipeUsecase, ownerID uuid.UUID, name string) *entity.Recipe {
	t.Helper()

	recipe, err := svc.CreateRecipe(context.Background(), ownerID, createRecipeInput(name))
	require.NoError(t, err)

	return recipe
}

func TestCreateRecipe(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()

	recipe := seedRecipe(t, svc, ownerID, "Carbonara")

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, ownerID, recipe.OwnerID)
	assert.Equal(t, 0, recipe.LikesCount)
}

func TestCreateRecipeWithImage(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newRecipeService(store, images)

	input := createRecipeInput("Carbonara")
	input.Image = &usecase.ImageUpload{Filename: "dish.png", Content: strings.NewReader("png")}

	recipe, err := svc.CreateRecipe(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, recipe.ImagePath)
	assert.True(t, strings.HasPrefix(recipe.ImagePath, "recipes/"))
	assert.Equal(t, "/static/"+recipe.ImagePath, recipe.ImageURL)
	assert.Len(t, images.files, 1)

	fetched, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ImageURL, fetched.ImageURL)
}

func TestUpdateRecipeRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()
	recipe := seedRecipe(t, svc, ownerID, "Carbonara")

	newName := "Stolen recipe"
	_, err := svc.UpdateRecipe(context.Background(), uuid.New(), recipe.ID, &usecase.UpdateRecipeInput{
		Name: &newName,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotRecipeOwner)

	unchanged, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carbonara", unchanged.Name)
}

func TestUpdateRecipePatch(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()
	recipe := seedRecipe(t, svc, ownerID, "Carbonara")

	newTime := 45
	updated, err := svc.UpdateRecipe(context.Background(), ownerID, recipe.ID, &usecase.UpdateRecipeInput{
		CookingTime: &newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.CookingTime)
	assert.Equal(t, "Carbonara", updated.Name)
}

func TestDeleteRecipeRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()
	recipe := seedRecipe(t, svc, ownerID, "Carbonara")

	err := svc.DeleteRecipe(context.Background(), uuid.New(), recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotRecipeOwner)

	require.NoError(t, svc.DeleteRecipe(context.Background(), ownerID, recipe.ID))

	_, err = svc.GetRecipe(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrRecipeNotFound)
}

func TestDeleteRecipeRemovesImage(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newRecipeService(store, images)
	ownerID := uuid.New()

	input := createRecipeInput("Carbonara")
	input.Image = &usecase.ImageUpload{Filename: "dish.png", Content: strings.NewReader("png")}
	recipe, err := svc.CreateRecipe(context.Background(), ownerID, input)
	require.NoError(t, err)
	require.Len(t, images.files, 1)

	require.NoError(t, svc.DeleteRecipe(context.Background(), ownerID, recipe.ID))
	assert.Empty(t, images.files)
}

func TestDeleteRecipeSurfacesImageRemovalFailure(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newRecipeService(store, images)
	ownerID := uuid.New()

	input := createRecipeInput("Carbonara")
	input.Image = &usecase.ImageUpload{Filename: "dish.png", Content: strings.NewReader("png")}
	recipe, err := svc.CreateRecipe(context.Background(), ownerID, input)
	require.NoError(t, err)

	images.removeErr = stderrors.New("disk gone")

	err = svc.DeleteRecipe(context.Background(), ownerID, recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInternalError)

	// The record stays deleted even though the file could not be removed.
	_, err = svc.GetRecipe(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, domainerrors.ErrRecipeNotFound)
}

func TestSearchRecipes(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()
	seedRecipe(t, svc, ownerID, "Spaghetti Carbonara")

	thai := createRecipeInput("Pad Thai")
	thai.Cuisine = "thai"
	_, err := svc.CreateRecipe(context.Background(), ownerID, thai)
	require.NoError(t, err)

	found, err := svc.SearchRecipes(context.Background(), &usecase.SearchRecipesInput{Query: "carbonara"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Spaghetti Carbonara", found[0].Name)

	found, err = svc.SearchRecipes(context.Background(), &usecase.SearchRecipesInput{Cuisine: "thai"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pad Thai", found[0].Name)
}

func TestSimilarRecipesSharesCuisineAndExcludesSelf(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()

	base := seedRecipe(t, svc, ownerID, "Carbonara")
	seedRecipe(t, svc, ownerID, "Lasagna")

	thai := createRecipeInput("Pad Thai")
	thai.Cuisine = "thai"
	_, err := svc.CreateRecipe(context.Background(), ownerID, thai)
	require.NoError(t, err)

	similar, err := svc.SimilarRecipes(context.Background(), base.ID, 10)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "Lasagna", similar[0].Name)
}

func TestListOwnRecipes(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	ownerID := uuid.New()

	seedRecipe(t, svc, ownerID, "Carbonara")
	seedRecipe(t, svc, uuid.New(), "Someone else's dish")

	mine, err := svc.ListOwnRecipes(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Carbonara", mine[0].Name)
}

func TestShareQR(t *testing.T) {
	store := newFakeStore()
	svc := newRecipeService(store, newFakeImageStore())
	recipe := seedRecipe(t, svc, uuid.New(), "Carbonara")

	png, err := svc.ShareQR(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = svc.ShareQR(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrRecipeNotFound)
}
