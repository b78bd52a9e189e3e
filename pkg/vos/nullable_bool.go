package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// NullableBool representa um bool que pode ser nulo.
type NullableBool struct {
	Nullable[bool]
}

// NewNullableBool cria um NullableBool com um valor válido.
func NewNullableBool(b bool) NullableBool {
	return NullableBool{some(b)}
}

// NewNullableBoolFromPointer cria um NullableBool a partir de um ponteiro.
func NewNullableBoolFromPointer(b *bool) NullableBool {
	return NullableBool{fromPointer(b)}
}

// IsTrue retorna true somente se o valor é válido e verdadeiro.
func (n NullableBool) IsTrue() bool {
	v, ok := n.Get()
	return ok && v
}

// ToSQL converte para sql.NullBool.
func (n NullableBool) ToSQL() sql.NullBool {
	v, ok := n.Get()
	return sql.NullBool{Bool: v, Valid: ok}
}

// Scan implementa sql.Scanner.
func (n *NullableBool) Scan(value any) error {
	var nb sql.NullBool
	if err := nb.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !nb.Valid {
		*n = NullableBool{}
		return nil
	}
	*n = NewNullableBool(nb.Bool)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableBool) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}
