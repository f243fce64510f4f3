package postgres

import (
	"context"

	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// notificationRepository implements the repository.NotificationRepository interface using GORM.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// Create persists a new notification.
func (repo *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	notificationM := &model.NotificationModel{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		ActorID:     notification.ActorID,
		Kind:        string(notification.Kind),
		RecipeID:    notification.RecipeID,
		Read:        notification.Read,
	}

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create notification")
	}

	notification.ID = notificationM.ID
	notification.CreatedAt = notificationM.CreatedAt

	return nil
}

// ListByRecipient returns the newest notifications for a user.
func (repo *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notificationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list notifications by recipient")
	}

	notifications := make([]*entity.Notification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, &entity.Notification{
			ID:          notificationM.ID,
			RecipientID: notificationM.RecipientID,
			ActorID:     notificationM.ActorID,
			Kind:        entity.NotificationKind(notificationM.Kind),
			RecipeID:    notificationM.RecipeID,
			Read:        notificationM.Read,
			CreatedAt:   notificationM.CreatedAt,
		})
	}

	return notifications, nil
}

// MarkAllRead flags every notification for the recipient as read.
func (repo *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		UpdateColumn("read", true).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark notifications read")
	}

	return nil
}
