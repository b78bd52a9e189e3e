package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// NullableInt32 representa um inteiro de 32 bits que pode ser nulo.
// É o tipo usado para colunas INTEGER/INT4.
type NullableInt32 struct {
	Nullable[int32]
}

// NewNullableInt32 cria um NullableInt32 com um valor válido.
func NewNullableInt32(v int32) NullableInt32 {
	return NullableInt32{some(v)}
}

// NewNullableInt32FromPointer cria um NullableInt32 a partir de um ponteiro.
func NewNullableInt32FromPointer(v *int32) NullableInt32 {
	return NullableInt32{fromPointer(v)}
}

// ToSQL converte para sql.NullInt32.
func (n NullableInt32) ToSQL() sql.NullInt32 {
	v, ok := n.Get()
	return sql.NullInt32{Int32: v, Valid: ok}
}

// Scan implementa sql.Scanner. Valores fora do intervalo de int32 retornam erro.
func (n *NullableInt32) Scan(value any) error {
	var ni sql.NullInt32
	if err := ni.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !ni.Valid {
		*n = NullableInt32{}
		return nil
	}
	*n = NewNullableInt32(ni.Int32)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableInt32) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}

// NullableInt representa um int64 que pode ser nulo (BIGINT/INT8).
type NullableInt struct {
	Nullable[int64]
}

// NewNullableInt cria um NullableInt com um valor válido.
func NewNullableInt(v int64) NullableInt {
	return NullableInt{some(v)}
}

// NewNullableIntFromPointer cria um NullableInt a partir de um ponteiro.
func NewNullableIntFromPointer(v *int64) NullableInt {
	return NullableInt{fromPointer(v)}
}

// NewNullableIntFromSQL cria um NullableInt a partir de sql.NullInt64.
func NewNullableIntFromSQL(n sql.NullInt64) NullableInt {
	if !n.Valid {
		return NullableInt{}
	}
	return NewNullableInt(n.Int64)
}

// ToSQL converte para sql.NullInt64.
func (n NullableInt) ToSQL() sql.NullInt64 {
	v, ok := n.Get()
	return sql.NullInt64{Int64: v, Valid: ok}
}

// Scan implementa sql.Scanner.
func (n *NullableInt) Scan(value any) error {
	var ni sql.NullInt64
	if err := ni.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*n = NewNullableIntFromSQL(ni)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableInt) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}
