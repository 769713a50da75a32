package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind discrimina las variantes de Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value es un valor etiquetado de un payload dinámico (datos de envío, metadata, campos de lista).
// Solo el campo correspondiente a Kind es significativo.
type Value struct {
	kind ValueKind
	str  string // KindString; texto original en KindNumber
	num  decimal.Decimal
	b    bool
	list []Value
	obj  Payload
}

// Payload mapa clave → valor de un formulario o metadata.
type Payload map[string]Value

// Null valor ausente.
func Null() Value { return Value{} }

// String valor de texto.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool valor booleano.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ListOf lista con los elementos dados.
func ListOf(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map objeto anidado.
func Map(p Payload) Value { return Value{kind: KindMap, obj: p} }

// Int número entero.
func Int(n int64) Value { return Number(decimal.NewFromInt(n)) }

// Number número decimal; el texto se toma de d.String().
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d, str: d.String()} }

// Kind devuelve la variante del valor.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull indica ausencia de valor (JSON null o clave inexistente).
func (v Value) IsNull() bool { return v.kind == KindNull }

// Items devuelve los elementos si el valor es una lista.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Fields devuelve el mapa si el valor es un objeto.
func (v Value) Fields() (Payload, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.obj, true
}

// Text representación textual de un escalar; "" para null, listas y objetos.
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Rango aceptado por Integer: el de una columna INTEGER de PostgreSQL.
var (
	minInteger = decimal.NewFromInt(math.MinInt32)
	maxInteger = decimal.NewFromInt(math.MaxInt32)
)

// Integer interpreta el valor como entero de 32 bits.
// Números con parte fraccionaria (2.9) o fuera de rango no son enteros; strings deben ser
// un entero decimal exacto.
func (v Value) Integer() (int, bool) {
	var d decimal.Decimal
	switch v.kind {
	case KindNumber:
		d = v.num
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.str), 10, 64)
		if err != nil {
			return 0, false
		}
		d = decimal.NewFromInt(n)
	default:
		return 0, false
	}
	if !d.IsInteger() || d.LessThan(minInteger) || d.GreaterThan(maxInteger) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// Get busca una clave; devuelve Null si no existe.
func (p Payload) Get(key string) Value {
	if p == nil {
		return Value{}
	}
	return p[key]
}

// Has indica si la clave existe con un valor no nulo.
func (p Payload) Has(key string) bool {
	return !p.Get(key).IsNull()
}

// MarshalJSON implementa json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.str), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]Value(v.obj))
	default:
		return nil, fmt.Errorf("value: variante desconocida %d", v.kind)
	}
}

// UnmarshalJSON implementa json.Unmarshaler preservando el texto exacto de los números.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("value: JSON vacío")
	}
	switch data[0] {
	case 'n':
		*v = Value{}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = ListOf(items...)
	case '{':
		var obj map[string]Value
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*v = Map(obj)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("value: número inválido %q: %w", data, err)
		}
		*v = Value{kind: KindNumber, num: d, str: string(data)}
	}
	return nil
}
