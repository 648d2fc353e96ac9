package pricing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
)

// CatalogueFilter holds the identifier sets whose products need recomputation.
type CatalogueFilter struct {
	ProductIDs    []int64 `json:"product_ids" validate:"omitempty,dive,gt=0"`
	CategoryIDs   []int64 `json:"category_ids" validate:"omitempty,dive,gt=0"`
	CollectionIDs []int64 `json:"collection_ids" validate:"omitempty,dive,gt=0"`
	VariantIDs    []int64 `json:"variant_ids" validate:"omitempty,dive,gt=0"`
}

var filterValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// IsEmpty reports whether no identifier set was supplied.
func (f CatalogueFilter) IsEmpty() bool {
	return len(f.ProductIDs) == 0 && len(f.CategoryIDs) == 0 &&
		len(f.CollectionIDs) == 0 && len(f.VariantIDs) == 0
}

// Validate rejects non-positive identifiers using the struct's validate tags.
func (f CatalogueFilter) Validate() error {
	err := filterValidator.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalogue filter")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid catalogue filter").WithDetails(details)
}

// Scope ORs one predicate per supplied set. An empty filter matches nothing.
// Each predicate is a subquery on products, so a product matching several
// sets is still returned once.
func (f CatalogueFilter) Scope() ProductSet {
	return func(db *gorm.DB) *gorm.DB {
		var (
			clauses []string
			args    []any
		)
		if len(f.ProductIDs) > 0 {
			clauses = append(clauses, "products.id IN ?")
			args = append(args, f.ProductIDs)
		}
		if len(f.CategoryIDs) > 0 {
			clauses = append(clauses, "products.category_id IN ?")
			args = append(args, f.CategoryIDs)
		}
		if len(f.CollectionIDs) > 0 {
			clauses = append(clauses, "products.id IN (SELECT product_id FROM collection_products WHERE collection_id IN ?)")
			args = append(args, f.CollectionIDs)
		}
		if len(f.VariantIDs) > 0 {
			clauses = append(clauses, "products.id IN (SELECT product_id FROM product_variants WHERE id IN ?)")
			args = append(args, f.VariantIDs)
		}
		if len(clauses) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
