package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// NullableString representa uma string que pode ser nula.
type NullableString struct {
	Nullable[string]
}

// NewNullableString cria um NullableString com um valor válido.
func NewNullableString(s string) NullableString {
	return NullableString{some(s)}
}

// NewNullableStringFromPointer cria um NullableString a partir de um ponteiro.
// Se o ponteiro for nil, retorna um NullableString nulo.
func NewNullableStringFromPointer(s *string) NullableString {
	return NullableString{fromPointer(s)}
}

// NewNullableStringFromSQL cria um NullableString a partir de sql.NullString.
func NewNullableStringFromSQL(ns sql.NullString) NullableString {
	if !ns.Valid {
		return NullableString{}
	}
	return NewNullableString(ns.String)
}

// ToSQL converte para sql.NullString.
func (n NullableString) ToSQL() sql.NullString {
	v, ok := n.Get()
	return sql.NullString{String: v, Valid: ok}
}

// Scan implementa sql.Scanner para leitura do banco de dados.
func (n *NullableString) Scan(value any) error {
	var ns sql.NullString
	if err := ns.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*n = NewNullableStringFromSQL(ns)
	return nil
}

// Value implementa driver.Valuer para escrita no banco de dados.
func (n NullableString) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}
