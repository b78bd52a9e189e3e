package vos

import (
	"encoding/json"
	"fmt"
)

// Nullable é a base genérica dos value objects anuláveis deste pacote.
// Usa internamente um ponteiro para evitar redundância com um campo Valid.
// Zero value é seguro: representa um valor nulo (SQL NULL).
//
// Os tipos concretos (NullableString, NullableInt32, ...) embutem Nullable[T]
// e acrescentam apenas o que depende do tipo: leitura (sql.Scanner) e
// escrita (driver.Valuer) no banco de dados.
type Nullable[T any] struct {
	value *T
}

func some[T any](v T) Nullable[T] {
	return Nullable[T]{value: &v}
}

func fromPointer[T any](v *T) Nullable[T] {
	if v == nil {
		return Nullable[T]{}
	}
	c := *v
	return Nullable[T]{value: &c}
}

// IsValid retorna true se o valor é válido (não nulo).
func (n Nullable[T]) IsValid() bool {
	return n.value != nil
}

// IsNull retorna true se o valor representa SQL NULL.
func (n Nullable[T]) IsNull() bool {
	return n.value == nil
}

// Get retorna o valor e um booleano indicando se é válido.
// Esta é a abordagem idiomática em Go para valores opcionais.
func (n Nullable[T]) Get() (T, bool) {
	if n.value == nil {
		var zero T
		return zero, false
	}
	return *n.value, true
}

// ValueOr retorna o valor se válido, ou o valor padrão fornecido.
func (n Nullable[T]) ValueOr(defaultValue T) T {
	if n.value == nil {
		return defaultValue
	}
	return *n.value
}

// Ptr retorna uma cópia do valor em um ponteiro, ou nil se inválido.
func (n Nullable[T]) Ptr() *T {
	if n.value == nil {
		return nil
	}
	c := *n.value
	return &c
}

// String retorna o valor formatado ou string vazia se inválido.
func (n Nullable[T]) String() string {
	if n.value == nil {
		return ""
	}
	return fmt.Sprint(*n.value)
}

// MarshalJSON implementa json.Marshaler.
// Valores nulos são serializados como null.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}

// UnmarshalJSON implementa json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.value = &v
	return nil
}
