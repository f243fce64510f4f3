package impl

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"yumbook/config"
	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorageConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.RootDir = "static"
	cfg.Storage.ProfileDir = "profiles"
	cfg.Storage.RecipeDir = "recipes"
	cfg.Storage.BaseURL = "/static/"

	return cfg
}

func newProfileService(store *fakeStore, images *fakeImageStore) usecase.ProfileUsecase {
	return NewProfileService(ProfileServiceParams{
		TxManager:  &fakeTxManager{store: store},
		UserRepo:   &fakeUserRepo{store: store},
		Hasher:     stubHasher{},
		ImageStore: images,
		Config:     newStorageConfig(),
		Logger:     discardLogger(),
	})
}

func seedUser(t *testing.T, store *fakeStore, username, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        email,
		FullName:     "Seed User",
		PasswordHash: "hashed:original",
	}
	repo := &fakeUserRepo{store: store}
	require.NoError(t, repo.Create(context.Background(), user))

	return user
}

func TestGetProfile(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")

	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestGetByUsername(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	seedUser(t, store, "bob", "bob@example.com")

	got, err := svc.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)

	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")

	newName := "Robert Plant"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		FullName: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert Plant", updated.FullName)
	assert.Equal(t, "bob", updated.Username)
	assert.Equal(t, "bob@example.com", updated.Email)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")
	seedUser(t, store, "carol", "carol@example.com")

	taken := "carol"
	_, err := svc.UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		Username: &taken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)

	unchanged, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", unchanged.Username)
}

func TestUpdateProfileKeepingOwnUsername(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")

	same := "bob"
	newEmail := "bob2@example.com"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		Username: &same,
		Email:    &newEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob2@example.com", updated.Email)
}

func TestUpdatePassword(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")

	err := svc.UpdatePassword(context.Background(), user.ID, &usecase.UpdatePasswordInput{
		CurrentPassword: "original",
		NewPassword:     "fresh-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "hashed:fresh-pass", store.users[user.ID].PasswordHash)
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	store := newFakeStore()
	svc := newProfileService(store, newFakeImageStore())
	user := seedUser(t, store, "bob", "bob@example.com")

	err := svc.UpdatePassword(context.Background(), user.ID, &usecase.UpdatePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "fresh-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, "hashed:original", store.users[user.ID].PasswordHash)
}

func TestUpdateAvatarReplacesPreviousFile(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newProfileService(store, images)
	user := seedUser(t, store, "bob", "bob@example.com")

	first, err := svc.UpdateAvatar(context.Background(), user.ID, &usecase.ImageUpload{
		Filename: "me.png",
		Content:  strings.NewReader("first"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.AvatarPath)
	assert.Equal(t, "/static/"+first.AvatarPath, first.AvatarURL)
	assert.Len(t, images.files, 1)

	fetched, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AvatarURL, fetched.AvatarURL)

	second, err := svc.UpdateAvatar(context.Background(), user.ID, &usecase.ImageUpload{
		Filename: "me2.jpg",
		Content:  strings.NewReader("second"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarPath, second.AvatarPath)

	// The previous file is gone.
	assert.Len(t, images.files, 1)
	_, kept := images.files[second.AvatarPath]
	assert.True(t, kept)
}

func TestRemoveAvatar(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newProfileService(store, images)
	user := seedUser(t, store, "bob", "bob@example.com")

	_, err := svc.UpdateAvatar(context.Background(), user.ID, &usecase.ImageUpload{
		Filename: "me.png",
		Content:  strings.NewReader("data"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAvatar(context.Background(), user.ID))
	assert.Empty(t, store.users[user.ID].AvatarPath)
	assert.Empty(t, images.files)

	// Removing again reports there is nothing to remove.
	err = svc.RemoveAvatar(context.Background(), user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNoAvatar)
}

func TestRemoveAvatarSurfacesFileRemovalFailure(t *testing.T) {
	store := newFakeStore()
	images := newFakeImageStore()
	svc := newProfileService(store, images)
	user := seedUser(t, store, "bob", "bob@example.com")

	_, err := svc.UpdateAvatar(context.Background(), user.ID, &usecase.ImageUpload{
		Filename: "me.png",
		Content:  strings.NewReader("data"),
	})
	require.NoError(t, err)

	images.removeErr = stderrors.New("disk gone")

	err = svc.RemoveAvatar(context.Background(), user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInternalError)

	// The reference is detached even though the file could not be removed.
	assert.Empty(t, store.users[user.ID].AvatarPath)
}
