package domain

import (
	"fmt"
	"strings"
)

// Kind - тип значения атрибута. Закрытое множество, проверяется при создании.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
	KindTuple  // пара целых (x, y), используется для позиций
	KindIDList // список ID сущностей (инвентарь и т.п.)
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindString:  "string",
	KindTuple:   "tuple",
	KindIDList:  "idlist",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Value - тегированное значение одного из пяти видов.
// Нулевое Value (kind == KindInvalid) означает "значения нет".
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
	t    [2]int
	ids  []EntityID
}

// --- КОНСТРУКТОРЫ ---

func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func Int(v int) Value        { return Value{kind: KindInt, i: v} }
func Str(v string) Value     { return Value{kind: KindString, s: v} }
func Tuple(x, y int) Value   { return Value{kind: KindTuple, t: [2]int{x, y}} }
func IDList(ids ...EntityID) Value {
	cp := make([]EntityID, len(ids))
	copy(cp, ids)
	return Value{kind: KindIDList, ids: cp}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// --- ДОСТУП ---

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsTuple() ([2]int, bool)  { return v.t, v.kind == KindTuple }
func (v Value) AsIDList() ([]EntityID, bool) {
	if v.kind != KindIDList {
		return nil, false
	}
	cp := make([]EntityID, len(v.ids))
	copy(cp, v.ids)
	return cp, true
}

// Equal сравнивает значения по виду и содержимому.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindString:
		return v.s == other.s
	case KindTuple:
		return v.t == other.t
	case KindIDList:
		if len(v.ids) != len(other.ids) {
			return false
		}
		for i := range v.ids {
			if v.ids[i] != other.ids[i] {
				return false
			}
		}
		return true
	}
	return v.kind == other.kind
}

// Primitive возвращает значение в виде, пригодном для JSON-снапшотов.
func (v Value) Primitive() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	case KindTuple:
		return []int{v.t[0], v.t[1]}
	case KindIDList:
		out := make([]string, len(v.ids))
		for i, id := range v.ids {
			out[i] = string(id)
		}
		return out
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindString:
		return v.s
	case KindTuple:
		return fmt.Sprintf("(%d,%d)", v.t[0], v.t[1])
	case KindIDList:
		parts := make([]string, len(v.ids))
		for i, id := range v.ids {
			parts[i] = string(id)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return "<invalid>"
}

// ValueFromPrimitive конвертирует сырое значение (из JSON/YAML) в Value.
// Числа из JSON приходят как float64, из YAML - как int.
func ValueFromPrimitive(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int64:
		return Int(int(x)), nil
	case float64:
		return Int(int(x)), nil
	case string:
		return Str(x), nil
	case []any:
		// Пара чисел -> Tuple, список строк -> IDList
		if len(x) == 2 {
			if a, aok := asInt(x[0]); aok {
				b, bok := asInt(x[1])
				if !bok {
					return Value{}, fmt.Errorf("tuple: смешанные типы элементов")
				}
				return Tuple(a, b), nil
			}
		}
		ids := make([]EntityID, 0, len(x))
		for _, el := range x {
			s, ok := el.(string)
			if !ok {
				return Value{}, fmt.Errorf("idlist: ожидалась строка, получено %T", el)
			}
			ids = append(ids, EntityID(s))
		}
		return IDList(ids...), nil
	}
	return Value{}, fmt.Errorf("неподдерживаемый тип значения: %T", raw)
}

func asInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Attribute - именованная ячейка значения, принадлежащая ровно одной сущности.
// Имя неизменно, значение мутабельно.
type Attribute struct {
	Name  string
	Value Value
}

// NewAttribute создает атрибут, проверяя имя и вид значения.
func NewAttribute(name string, v Value) (*Attribute, error) {
	if name == "" {
		return nil, fmt.Errorf("attribute: пустое имя")
	}
	if v.IsZero() {
		return nil, fmt.Errorf("attribute %q: значение без типа", name)
	}
	return &Attribute{Name: name, Value: v}, nil
}
