package param

import (
	"fmt"
	"time"

	"github.com/JailtonJunior94/txkit/pkg/vos"
)

// Parameter is a value waiting to be bound to a statement placeholder.
// Each implementation knows which Binder method accepts its type, so binding
// never inspects the value at runtime.
type Parameter interface {
	// Bind hands the value to b. position is 0-based; the binder receives position+1.
	Bind(b Binder, position int) error
}

type stringParam struct{ v vos.NullableString }

func (p stringParam) Bind(b Binder, position int) error { return b.BindString(position+1, p.v) }

type intParam struct{ v vos.NullableInt32 }

func (p intParam) Bind(b Binder, position int) error { return b.BindInt(position+1, p.v) }

type longParam struct{ v vos.NullableInt }

func (p longParam) Bind(b Binder, position int) error { return b.BindLong(position+1, p.v) }

type doubleParam struct{ v vos.NullableFloat }

func (p doubleParam) Bind(b Binder, position int) error { return b.BindDouble(position+1, p.v) }

type floatParam struct{ v vos.NullableFloat32 }

func (p floatParam) Bind(b Binder, position int) error { return b.BindFloat(position+1, p.v) }

type byteParam struct{ v vos.NullableByte }

func (p byteParam) Bind(b Binder, position int) error { return b.BindByte(position+1, p.v) }

type boolParam struct{ v vos.NullableBool }

func (p boolParam) Bind(b Binder, position int) error { return b.BindBool(position+1, p.v) }

type timeParam struct{ v vos.NullableTime }

func (p timeParam) Bind(b Binder, position int) error { return b.BindTime(position+1, p.v) }

// String binds a VARCHAR/TEXT value.
func String(v string) Parameter { return stringParam{vos.NewNullableString(v)} }

// StringPtr binds a string, or a typed NULL when v is nil.
func StringPtr(v *string) Parameter { return stringParam{vos.NewNullableStringFromPointer(v)} }

// NullString binds a NULL of string type.
func NullString() Parameter { return stringParam{} }

// Int binds a 32-bit INTEGER.
func Int(v int32) Parameter { return intParam{vos.NewNullableInt32(v)} }

// IntPtr binds a 32-bit integer, or a typed NULL when v is nil.
func IntPtr(v *int32) Parameter { return intParam{vos.NewNullableInt32FromPointer(v)} }

// NullInt binds a NULL of 32-bit integer type.
func NullInt() Parameter { return intParam{} }

// Long binds a 64-bit BIGINT.
func Long(v int64) Parameter { return longParam{vos.NewNullableInt(v)} }

// LongPtr binds a 64-bit integer, or a typed NULL when v is nil.
func LongPtr(v *int64) Parameter { return longParam{vos.NewNullableIntFromPointer(v)} }

// NullLong binds a NULL of 64-bit integer type.
func NullLong() Parameter { return longParam{} }

// Double binds a DOUBLE PRECISION value.
func Double(v float64) Parameter { return doubleParam{vos.NewNullableFloat(v)} }

// DoublePtr binds a float64, or a typed NULL when v is nil.
func DoublePtr(v *float64) Parameter { return doubleParam{vos.NewNullableFloatFromPointer(v)} }

// NullDouble binds a NULL of double type.
func NullDouble() Parameter { return doubleParam{} }

// Float binds a REAL value.
func Float(v float32) Parameter { return floatParam{vos.NewNullableFloat32(v)} }

// FloatPtr binds a float32, or a typed NULL when v is nil.
func FloatPtr(v *float32) Parameter { return floatParam{vos.NewNullableFloat32FromPointer(v)} }

// NullFloat binds a NULL of float type.
func NullFloat() Parameter { return floatParam{} }

// Byte binds an unsigned 8-bit value.
func Byte(v byte) Parameter { return byteParam{vos.NewNullableByte(v)} }

// BytePtr binds a byte, or a typed NULL when v is nil.
func BytePtr(v *byte) Parameter { return byteParam{vos.NewNullableByteFromPointer(v)} }

// NullByte binds a NULL of byte type.
func NullByte() Parameter { return byteParam{} }

// Bool binds a BOOLEAN.
func Bool(v bool) Parameter { return boolParam{vos.NewNullableBool(v)} }

// BoolPtr binds a bool, or a typed NULL when v is nil.
func BoolPtr(v *bool) Parameter { return boolParam{vos.NewNullableBoolFromPointer(v)} }

// NullBool binds a NULL of boolean type.
func NullBool() Parameter { return boolParam{} }

// Time binds a TIMESTAMP.
func Time(v time.Time) Parameter { return timeParam{vos.NewNullableTime(v)} }

// TimePtr binds a time, or a typed NULL when v is nil.
func TimePtr(v *time.Time) Parameter { return timeParam{vos.NewNullableTimeFromPointer(v)} }

// NullTime binds a NULL of timestamp type.
func NullTime() Parameter { return timeParam{} }

// BindAll binds params in order starting at position 0.
func BindAll(b Binder, params ...Parameter) error {
	if b == nil {
		return fmt.Errorf("%w: binder is nil", ErrInvalidArgument)
	}
	for i, p := range params {
		if p == nil {
			return fmt.Errorf("%w: parameter at position %d is nil", ErrInvalidArgument, i)
		}
		if err := p.Bind(b, i); err != nil {
			return err
		}
	}
	return nil
}
