package impl

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"yumbook/config"
	deliverycontext "yumbook/internal/delivery/context"
	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/domain/service"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	hasher     service.PasswordHasher
	imageStore service.ImageStore
	profileDir string
	logger     *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	Hasher     service.PasswordHasher
	ImageStore service.ImageStore
	Config     *config.Config
	Logger     *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		hasher:     params.Hasher,
		imageStore: params.ImageStore,
		profileDir: params.Config.Storage.ProfileDir,
		logger:     params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves the user's profile information.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get profile")
	}

	return srv.withAvatarURL(user), nil
}

// GetByUsername retrieves a public profile by its username.
func (srv *profileService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := srv.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get profile by username")
	}

	return srv.withAvatarURL(user), nil
}

// UpdateProfile applies a partial update. Only non-nil fields overwrite the
// stored values; username and email changes re-check uniqueness first.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	var updated *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for profile update")
		}

		if input.Username != nil && *input.Username != user.Username {
			if err := srv.checkUsernameFree(ctx, userRepo, *input.Username); err != nil {
				return err
			}
			user.Username = *input.Username
		}
		if input.Email != nil && *input.Email != user.Email {
			if err := srv.checkEmailFree(ctx, userRepo, *input.Email); err != nil {
				return err
			}
			user.Email = *input.Email
		}
		if input.FullName != nil {
			user.FullName = *input.FullName
		}

		if err := userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateUser) {
				return domainerrors.ErrUserAlreadyExists
			}

			return errors.Wrap(err, "failed to persist profile update")
		}

		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Profile update failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return srv.withAvatarURL(updated), nil
}

// UpdatePassword verifies the current password and replaces it atomically.
func (srv *profileService) UpdatePassword(ctx context.Context, userID uuid.UUID, input *usecase.UpdatePasswordInput) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user for password change")
	}

	if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.Any("userID", userID))

		return domainerrors.ErrInvalidCredentials
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		current, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user for password change")
		}

		current.PasswordHash = hashedPassword

		return errors.Wrap(userRepo.Update(ctx, current), "failed to persist new password")
	})
}

// UpdateAvatar stores the uploaded image under a fresh uuid filename and
// swaps the user's avatar reference. The new file is removed again if the
// database update fails; the old file is removed best-effort on success.
func (srv *profileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *usecase.ImageUpload) (*entity.User, error) {
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(upload.Filename))

	newPath, err := srv.imageStore.Save(ctx, srv.profileDir, storedName, upload.Content)
	if err != nil {
		return nil, err
	}

	var updated *entity.User
	var oldPath string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for avatar update")
		}

		oldPath = user.AvatarPath
		user.AvatarPath = newPath

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to persist avatar update")
		}

		updated = user

		return nil
	})
	if err != nil {
		if removeErr := srv.imageStore.Remove(ctx, newPath); removeErr != nil {
			srv.log(ctx).Warn("Failed to clean up avatar file after rollback", slog.String("path", newPath), slog.Any("error", removeErr))
		}

		return nil, err
	}

	if oldPath != "" {
		if removeErr := srv.imageStore.Remove(ctx, oldPath); removeErr != nil {
			srv.log(ctx).Warn("Failed to remove previous avatar file", slog.String("path", oldPath), slog.Any("error", removeErr))
		}
	}

	srv.log(ctx).Debug("Avatar updated", slog.Any("userID", userID))

	return srv.withAvatarURL(updated), nil
}

// RemoveAvatar detaches and deletes the user's avatar.
func (srv *profileService) RemoveAvatar(ctx context.Context, userID uuid.UUID) error {
	var oldPath string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for avatar removal")
		}

		if user.AvatarPath == "" {
			return domainerrors.ErrNoAvatar
		}

		oldPath = user.AvatarPath
		user.AvatarPath = ""

		return errors.Wrap(userRepo.Update(ctx, user), "failed to persist avatar removal")
	})
	if err != nil {
		return err
	}

	// The reference is already detached either way; a failure here means
	// an orphaned file, which the caller should hear about.
	if removeErr := srv.imageStore.Remove(ctx, oldPath); removeErr != nil {
		srv.log(ctx).Error("Failed to remove avatar file", slog.String("path", oldPath), slog.Any("error", removeErr))

		return domainerrors.ErrInternalError.WrapMessage("failed to remove avatar file")
	}

	return nil
}

// withAvatarURL fills in the public URL for the stored avatar path.
func (srv *profileService) withAvatarURL(user *entity.User) *entity.User {
	if user.AvatarPath != "" {
		user.AvatarURL = srv.imageStore.PublicURL(user.AvatarPath)
	}

	return user
}

func (srv *profileService) checkUsernameFree(ctx context.Context, userRepo repository.UserRepository, username string) error {
	_, err := userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check username uniqueness")
	}

	return domainerrors.ErrUserAlreadyExists.WrapMessage("username already taken")
}

func (srv *profileService) checkEmailFree(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}

	return domainerrors.ErrUserAlreadyExists.WrapMessage("email already taken")
}
