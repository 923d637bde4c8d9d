package postgres

import (
	"context"
	"time"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventRepository implements repository.EventRepository and, for events,
// repository.OwnershipRepository.
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository is the constructor for eventRepository.
func NewEventRepository(db *gorm.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

// NewEventOwnershipRepository resolves event authorship. It is the ownership
// guard's default lookup.
func NewEventOwnershipRepository(db *gorm.DB) repository.OwnershipRepository {
	return &eventRepository{db: db}
}

// FindEventByID retrieves the ownership projection of an event.
func (repo *eventRepository) FindEventByID(ctx context.Context, id string) (*entity.Event, error) {
	var eventM model.EventModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&eventM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEventNotFound
		}

		return nil, errors.Wrap(err, "failed to find event by id")
	}

	return &entity.Event{
		ID:       eventM.ID,
		AuthorID: eventM.AuthorID,
		Name:     eventM.Name,
	}, nil
}

// FindOwnership fetches only the author column of an event.
func (repo *eventRepository) FindOwnership(ctx context.Context, resourceID string) (*entity.OwnershipRecord, error) {
	var eventM model.EventModel
	err := repo.db.WithContext(ctx).
		Select("id", "author_id").
		Where("id = ?", resourceID).
		First(&eventM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrResourceNotFound
		}

		return nil, errors.Wrap(err, "failed to find event ownership")
	}

	return &entity.OwnershipRecord{
		ResourceID: eventM.ID,
		AuthorID:   eventM.AuthorID,
	}, nil
}

// FindEventPassword retrieves the live password record of an event.
func (repo *eventRepository) FindEventPassword(ctx context.Context, eventID string) (*entity.EventPassword, error) {
	var passwordM model.EventPasswordModel
	err := repo.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&passwordM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEventPasswordNotFound
		}

		return nil, errors.Wrap(err, "failed to find event password")
	}

	return toEventPasswordDomain(&passwordM), nil
}

// SaveEventPassword upserts on event_id so that rotation replaces the whole record.
func (repo *eventRepository) SaveEventPassword(ctx context.Context, password *entity.EventPassword) error {
	passwordM := fromEventPasswordDomain(password)
	now := time.Now()
	if passwordM.CreatedAt.IsZero() {
		passwordM.CreatedAt = now
	}
	passwordM.UpdatedAt = now

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"encrypted_password", "expires_at", "updated_at"}),
		}).
		Create(passwordM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.WithStack(repository.ErrEventNotFound)
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrEventPasswordIssueFailed.WrapMessage("missing required password information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save event password")
	}

	password.CreatedAt = passwordM.CreatedAt
	password.UpdatedAt = passwordM.UpdatedAt

	return nil
}

// DeleteEventPassword removes the password record of an event.
func (repo *eventRepository) DeleteEventPassword(ctx context.Context, eventID string) error {
	result := repo.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.EventPasswordModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete event password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrEventPasswordNotFound
	}

	return nil
}

func toEventPasswordDomain(data *model.EventPasswordModel) *entity.EventPassword {
	return &entity.EventPassword{
		EventID:           data.EventID,
		EncryptedPassword: data.EncryptedPassword,
		ExpiresAt:         data.ExpiresAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromEventPasswordDomain(data *entity.EventPassword) *model.EventPasswordModel {
	return &model.EventPasswordModel{
		EventID:           data.EventID,
		EncryptedPassword: data.EncryptedPassword,
		ExpiresAt:         data.ExpiresAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
