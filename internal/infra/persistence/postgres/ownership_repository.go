package postgres

import (
	"context"
	"fmt"

	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tableOwnershipRepository resolves authorship for any table that carries an
// id column and an author column.
type tableOwnershipRepository struct {
	db           *gorm.DB
	table        string
	authorColumn string
}

type ownershipRow struct {
	ID       string
	AuthorID string
}

// NewTableOwnershipRepository builds an ownership lookup over the given table.
// authorColumn defaults to "author_id".
func NewTableOwnershipRepository(db *gorm.DB, table, authorColumn string) repository.OwnershipRepository {
	if authorColumn == "" {
		authorColumn = "author_id"
	}

	return &tableOwnershipRepository{
		db:           db,
		table:        table,
		authorColumn: authorColumn,
	}
}

// FindOwnership returns repository.ErrResourceNotFound for an unknown id.
func (repo *tableOwnershipRepository) FindOwnership(ctx context.Context, resourceID string) (*entity.OwnershipRecord, error) {
	var row ownershipRow
	result := repo.db.WithContext(ctx).
		Table(repo.table).
		Select(fmt.Sprintf("id, %s AS author_id", repo.authorColumn)).
		Where("id = ?", resourceID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "failed to find ownership in %s", repo.table)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrResourceNotFound
	}

	return &entity.OwnershipRecord{
		ResourceID: row.ID,
		AuthorID:   row.AuthorID,
	}, nil
}
