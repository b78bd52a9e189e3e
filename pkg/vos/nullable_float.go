package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// NullableFloat representa um float64 ("double") que pode ser nulo.
type NullableFloat struct {
	Nullable[float64]
}

// NewNullableFloat cria um NullableFloat com um valor válido.
func NewNullableFloat(f float64) NullableFloat {
	return NullableFloat{some(f)}
}

// NewNullableFloatFromPointer cria um NullableFloat a partir de um ponteiro.
func NewNullableFloatFromPointer(f *float64) NullableFloat {
	return NullableFloat{fromPointer(f)}
}

// ToSQL converte para sql.NullFloat64.
func (n NullableFloat) ToSQL() sql.NullFloat64 {
	v, ok := n.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// String retorna o valor formatado sem expoente, ou string vazia se inválido.
func (n NullableFloat) String() string {
	v, ok := n.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Scan implementa sql.Scanner.
func (n *NullableFloat) Scan(value any) error {
	var nf sql.NullFloat64
	if err := nf.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !nf.Valid {
		*n = NullableFloat{}
		return nil
	}
	*n = NewNullableFloat(nf.Float64)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableFloat) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}

// NullableFloat32 representa um float32 (REAL/FLOAT4) que pode ser nulo.
type NullableFloat32 struct {
	Nullable[float32]
}

// NewNullableFloat32 cria um NullableFloat32 com um valor válido.
func NewNullableFloat32(f float32) NullableFloat32 {
	return NullableFloat32{some(f)}
}

// NewNullableFloat32FromPointer cria um NullableFloat32 a partir de um ponteiro.
func NewNullableFloat32FromPointer(f *float32) NullableFloat32 {
	return NullableFloat32{fromPointer(f)}
}

// ToSQL converte para sql.Null[float32].
func (n NullableFloat32) ToSQL() sql.Null[float32] {
	v, ok := n.Get()
	return sql.Null[float32]{V: v, Valid: ok}
}

// String retorna o valor formatado com precisão de 32 bits.
func (n NullableFloat32) String() string {
	v, ok := n.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// Scan implementa sql.Scanner. Drivers entregam REAL como float64; valores
// que não cabem em float32 retornam erro.
func (n *NullableFloat32) Scan(value any) error {
	var nf sql.NullFloat64
	if err := nf.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !nf.Valid {
		*n = NullableFloat32{}
		return nil
	}
	if !math.IsInf(nf.Float64, 0) && !math.IsNaN(nf.Float64) && math.Abs(nf.Float64) > math.MaxFloat32 {
		return fmt.Errorf("%w: %v overflows float32", ErrOverflow, nf.Float64)
	}
	*n = NewNullableFloat32(float32(nf.Float64))
	return nil
}

// Value implementa driver.Valuer. float32 não é um driver.Value válido,
// então o valor é promovido para float64.
func (n NullableFloat32) Value() (driver.Value, error) {
	v, ok := n.Get()
	if !ok {
		return nil, nil
	}
	return float64(v), nil
}
