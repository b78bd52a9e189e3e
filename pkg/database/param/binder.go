package param

import "github.com/JailtonJunior94/txkit/pkg/vos"

// Binder receives typed values for the placeholders of a prepared statement.
// Positions are 1-based. A null value must be bound as the SQL null of the
// declared type, not as a zero value.
type Binder interface {
	BindString(position int, v vos.NullableString) error
	BindInt(position int, v vos.NullableInt32) error
	BindLong(position int, v vos.NullableInt) error
	BindDouble(position int, v vos.NullableFloat) error
	BindFloat(position int, v vos.NullableFloat32) error
	BindByte(position int, v vos.NullableByte) error
	BindBool(position int, v vos.NullableBool) error
	BindTime(position int, v vos.NullableTime) error
}
