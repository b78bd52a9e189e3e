package vos

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"
)

// NullableTime representa um time.Time que pode ser nulo.
type NullableTime struct {
	Nullable[time.Time]
}

// NewNullableTime cria um NullableTime com um valor válido.
func NewNullableTime(t time.Time) NullableTime {
	return NullableTime{some(t)}
}

// NewNullableTimeFromPointer cria um NullableTime a partir de um ponteiro.
func NewNullableTimeFromPointer(t *time.Time) NullableTime {
	return NullableTime{fromPointer(t)}
}

// ToSQL converte para sql.NullTime.
func (n NullableTime) ToSQL() sql.NullTime {
	v, ok := n.Get()
	return sql.NullTime{Time: v, Valid: ok}
}

// Format retorna o tempo formatado ou string vazia se inválido.
func (n NullableTime) Format(layout string) string {
	v, ok := n.Get()
	if !ok {
		return ""
	}
	return v.Format(layout)
}

// String retorna o tempo em RFC3339 ou string vazia se inválido.
func (n NullableTime) String() string {
	return n.Format(time.RFC3339Nano)
}

// Scan implementa sql.Scanner.
func (n *NullableTime) Scan(value any) error {
	var nt sql.NullTime
	if err := nt.Scan(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if !nt.Valid {
		*n = NullableTime{}
		return nil
	}
	*n = NewNullableTime(nt.Time)
	return nil
}

// Value implementa driver.Valuer.
func (n NullableTime) Value() (driver.Value, error) {
	return n.ToSQL().Value()
}
