package uow

import (
	"database/sql"
	"fmt"

	"github.com/JailtonJunior94/txkit/pkg/database"
	"github.com/JailtonJunior94/txkit/pkg/vos"
)

// Row é uma visão somente leitura da linha atual do cursor, endereçada pelo
// nome da coluna. Só é válida durante a chamada de mapeamento que a recebeu.
//
// SQL NULL é devolvido como um valor nulo do tipo pedido (IsNull() == true).
// Uma coluna inexistente retorna database.ErrUnknownColumn.
type Row interface {
	String(column string) (vos.NullableString, error)
	Int(column string) (vos.NullableInt32, error)
	Long(column string) (vos.NullableInt, error)
	Double(column string) (vos.NullableFloat, error)
	Float(column string) (vos.NullableFloat32, error)
	Byte(column string) (vos.NullableByte, error)
	Bool(column string) (vos.NullableBool, error)
	Time(column string) (vos.NullableTime, error)
}

type row struct {
	cursor database.Cursor
	done   bool
}

func (r *row) String(column string) (vos.NullableString, error) {
	return scanColumn[vos.NullableString](r, column)
}

func (r *row) Int(column string) (vos.NullableInt32, error) {
	return scanColumn[vos.NullableInt32](r, column)
}

func (r *row) Long(column string) (vos.NullableInt, error) {
	return scanColumn[vos.NullableInt](r, column)
}

func (r *row) Double(column string) (vos.NullableFloat, error) {
	return scanColumn[vos.NullableFloat](r, column)
}

func (r *row) Float(column string) (vos.NullableFloat32, error) {
	return scanColumn[vos.NullableFloat32](r, column)
}

func (r *row) Byte(column string) (vos.NullableByte, error) {
	return scanColumn[vos.NullableByte](r, column)
}

func (r *row) Bool(column string) (vos.NullableBool, error) {
	return scanColumn[vos.NullableBool](r, column)
}

func (r *row) Time(column string) (vos.NullableTime, error) {
	return scanColumn[vos.NullableTime](r, column)
}

func scanColumn[T any, PT interface {
	*T
	sql.Scanner
}](r *row, column string) (T, error) {
	var out T
	if r.done {
		return out, fmt.Errorf("%w: row used outside its mapping call", database.ErrInvalidArgument)
	}
	v, err := r.cursor.Value(column)
	if err != nil {
		return out, fmt.Errorf("column %q: %w", column, err)
	}
	if err := PT(&out).Scan(v); err != nil {
		return out, fmt.Errorf("column %q: %w", column, err)
	}
	return out, nil
}
