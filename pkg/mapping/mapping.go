package mapping

import "database/sql"

// SQLNullStringToPointer maps NULL to a nil pointer.
func SQLNullStringToPointer(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

// Pointer returns a pointer to the given value. Useful for optional fields
// in literals.
func Pointer[T any](v T) *T {
	return &v
}
