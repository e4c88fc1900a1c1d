package document

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// UnitType is the type of inputs that carry no data, such as freshly
// disconnected inputs with no better type information available.
var UnitType = cty.EmptyObject

// UnitValue returns the canonical empty value of [UnitType].
func UnitValue() TaggedValue {
	return NewValue(cty.EmptyObjectVal)
}

// TaggedValue is a literal value stored directly in a node input, together
// with its type. The zero TaggedValue is the null unit value.
type TaggedValue struct {
	value cty.Value
}

// NewValue wraps a cty value as a TaggedValue.
func NewValue(v cty.Value) TaggedValue {
	return TaggedValue{value: v}
}

// DefaultForType returns the type-appropriate disconnected value for t:
// a null value carrying the given type, so type resolution keeps working
// after a wire is removed.
func DefaultForType(t cty.Type) TaggedValue {
	if t == cty.NilType {
		t = UnitType
	}
	return TaggedValue{value: cty.NullVal(t)}
}

// Value returns the underlying cty value.
func (t TaggedValue) Value() cty.Value {
	if t.value == cty.NilVal {
		return cty.NullVal(UnitType)
	}
	return t.value
}

// Type returns the type of the stored value.
func (t TaggedValue) Type() cty.Type {
	return t.Value().Type()
}

// Equal reports whether two tagged values have the same type and contents.
func (t TaggedValue) Equal(other TaggedValue) bool {
	return t.Value().RawEquals(other.Value())
}

func (t TaggedValue) String() string {
	v := t.Value()
	if v.IsNull() {
		return fmt.Sprintf("null %s", v.Type().FriendlyName())
	}
	return v.GoString()
}

// taggedValueJSON is the wire form: the type is serialized alongside the
// value so null values round-trip without losing their type.
type taggedValueJSON struct {
	Type  json.RawMessage `json:"type" bson:"type"`
	Value json.RawMessage `json:"value" bson:"value"`
}

// MarshalJSON encodes the value together with its type.
func (t TaggedValue) MarshalJSON() ([]byte, error) {
	v := t.Value()
	typeRaw, err := ctyjson.MarshalType(v.Type())
	if err != nil {
		return nil, fmt.Errorf("marshal type: %w", err)
	}
	valueRaw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return json.Marshal(taggedValueJSON{Type: typeRaw, Value: valueRaw})
}

// UnmarshalJSON decodes a value serialized by MarshalJSON.
func (t *TaggedValue) UnmarshalJSON(data []byte) error {
	var wire taggedValueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	typ, err := ctyjson.UnmarshalType(wire.Type)
	if err != nil {
		return fmt.Errorf("unmarshal type: %w", err)
	}
	val, err := ctyjson.Unmarshal(wire.Value, typ)
	if err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}
	t.value = val
	return nil
}
