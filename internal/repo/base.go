package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
)

// Base holds the connection shared by the catalogue repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// QueryError maps a failed query onto the typed error codes. A missing record
// becomes NOT_FOUND with the notFound message when one is given; everything
// else is a DEPENDENCY_ERROR tagged with op.
func (b Base) QueryError(err error, op, notFound string) error {
	if err == nil {
		return nil
	}
	if notFound != "" && errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: "+op)
}
