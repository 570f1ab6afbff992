package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrMaterialNotFound   = errors.New("material not found")
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrBOMLineNotFound    = errors.New("bom line not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrSalesOrderNotFound = errors.New("sales order not found")
	ErrAPIKeyNotFound     = errors.New("api key not found")

	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)

// isUniqueViolation recognizes unique constraint failures from both postgres
// and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
