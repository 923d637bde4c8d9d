package postgres

import (
	"context"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// oauthClientRepository implements repository.OAuthClientRepository.
type oauthClientRepository struct {
	db *gorm.DB
}

// NewOAuthClientRepository is the constructor for oauthClientRepository.
func NewOAuthClientRepository(db *gorm.DB) repository.OAuthClientRepository {
	return &oauthClientRepository{db: db}
}

// FindClientByClientID loads a client with its grants, redirect URIs and scopes.
func (repo *oauthClientRepository) FindClientByClientID(ctx context.Context, clientID string) (*entity.OAuthClient, error) {
	var clientM model.OAuthClientModel
	err := repo.db.WithContext(ctx).
		Preload("Grants").
		Preload("RedirectURIs").
		Preload("Scopes").
		Where("client_id = ?", clientID).
		First(&clientM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOAuthClientNotFound
		}

		return nil, errors.Wrap(err, "failed to find oauth client")
	}

	return toOAuthClientDomain(&clientM), nil
}

// CreateClient inserts the client row; GORM inserts the child rows through the associations.
func (repo *oauthClientRepository) CreateClient(ctx context.Context, client *entity.OAuthClient) error {
	clientM, err := fromOAuthClientDomain(client)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(clientM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrOAuthClientCreationFailed.WrapMessage("client id already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOAuthClientCreationFailed.WrapMessage("invalid owner reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrOAuthClientCreationFailed.WrapMessage("missing required client information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create oauth client")
	}

	client.ID = clientM.ID.String()
	client.CreatedAt = clientM.CreatedAt

	return nil
}

func toOAuthClientDomain(data *model.OAuthClientModel) *entity.OAuthClient {
	client := &entity.OAuthClient{
		ID:           data.ID.String(),
		ClientID:     data.ClientID,
		HashedSecret: data.ClientSecretHash,
		OwnerUserID:  data.UserID,
		Grants:       make([]string, 0, len(data.Grants)),
		RedirectURIs: make([]string, 0, len(data.RedirectURIs)),
		Scopes:       make([]string, 0, len(data.Scopes)),
		CreatedAt:    data.CreatedAt,
	}
	for _, g := range data.Grants {
		client.Grants = append(client.Grants, g.GrantType)
	}
	for _, r := range data.RedirectURIs {
		client.RedirectURIs = append(client.RedirectURIs, r.RedirectURI)
	}
	for _, s := range data.Scopes {
		client.Scopes = append(client.Scopes, s.Scope)
	}

	return client
}

func fromOAuthClientDomain(data *entity.OAuthClient) (*model.OAuthClientModel, error) {
	id := uuid.New()
	if data.ID != "" {
		parsed, err := uuid.Parse(data.ID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid oauth client id")
		}
		id = parsed
	}

	clientM := &model.OAuthClientModel{
		ID:               id,
		ClientID:         data.ClientID,
		ClientSecretHash: data.HashedSecret,
		UserID:           data.OwnerUserID,
		CreatedAt:        data.CreatedAt,
	}
	for _, g := range data.Grants {
		clientM.Grants = append(clientM.Grants, model.OAuthClientGrantModel{OAuthClientID: id, GrantType: g})
	}
	for _, r := range data.RedirectURIs {
		clientM.RedirectURIs = append(clientM.RedirectURIs, model.OAuthClientRedirectURIModel{OAuthClientID: id, RedirectURI: r})
	}
	for _, s := range data.Scopes {
		clientM.Scopes = append(clientM.Scopes, model.OAuthClientScopeModel{OAuthClientID: id, Scope: s})
	}

	return clientM, nil
}
