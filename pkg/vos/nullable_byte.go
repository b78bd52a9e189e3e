package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// NullableByte representa um byte (SMALLINT/TINYINT sem sinal) que pode ser nulo.
type NullableByte struct {
	Nullable[byte]
}

// NewNullableByte cria um NullableByte com um valor válido.
func NewNullableByte(b byte) NullableByte {
	return NullableByte{some(b)}
}

// NewNullableByteFromPointer cria um NullableByte a partir de um ponteiro.
func NewNullableByteFromPointer(b *byte) NullableByte {
	return NullableByte{fromPointer(b)}
}

// ToSQL converte para sql.NullByte.
func (n NullableByte) ToSQL() sql.NullByte {
	v, ok := n.Get()
	return sql.NullByte{Byte: v, Valid: ok}
}

// Scan implementa sql.Scanner. Valores fora de 0..255 retornam erro.
func (n *NullableByte) Scan(value any) error {
	var nb sql.NullByte
	if err := nb.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !nb.Valid {
		*n = NullableByte{}
		return nil
	}
	*n = NewNullableByte(nb.Byte)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableByte) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}
