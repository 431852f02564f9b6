// AngelaMos | 2026
// answer.go

package submission

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var errAnswerType = errors.New("answer must be a string or a list of strings")

// Answer is either a single string or a list of strings (multi select).
// Numbers and booleans sent by clients are kept as their string form.
type Answer struct {
	values []string
	multi  bool
}

func Text(value string) Answer {
	return Answer{values: []string{value}}
}

func Choices(values ...string) Answer {
	if values == nil {
		values = []string{}
	}
	return Answer{values: values, multi: true}
}

func (a Answer) IsMulti() bool {
	return a.multi
}

// Values returns the answer as a list; a single answer has one element.
func (a Answer) Values() []string {
	return a.values
}

func (a Answer) String() string {
	return strings.Join(a.values, ", ")
}

func (a Answer) IsEmpty() bool {
	for _, v := range a.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.values)
	}
	if len(a.values) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(a.values[0])
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			v, err := scalarJSON(item)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*a = Choices(values...)
		return nil
	}

	v, err := scalarJSON(data)
	if err != nil {
		return err
	}
	*a = Text(v)
	return nil
}

func scalarJSON(data []byte) (string, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return "", err
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", errAnswerType
	}
}

func (a Answer) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a.multi {
		return bson.MarshalValue(a.values)
	}
	if len(a.values) == 0 {
		return bson.MarshalValue("")
	}
	return bson.MarshalValue(a.values[0])
}

func (a *Answer) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	if t == bsontype.Array {
		items, err := rv.Array().Values()
		if err != nil {
			return fmt.Errorf("decode answer: %w", err)
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			v, err := scalarBSON(item)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*a = Choices(values...)
		return nil
	}

	v, err := scalarBSON(rv)
	if err != nil {
		return err
	}
	*a = Text(v)
	return nil
}

func scalarBSON(rv bson.RawValue) (string, error) {
	switch rv.Type {
	case bsontype.String:
		return rv.StringValue(), nil
	case bsontype.Int32:
		return strconv.FormatInt(int64(rv.Int32()), 10), nil
	case bsontype.Int64:
		return strconv.FormatInt(rv.Int64(), 10), nil
	case bsontype.Double:
		return strconv.FormatFloat(rv.Double(), 'f', -1, 64), nil
	case bsontype.Boolean:
		return strconv.FormatBool(rv.Boolean()), nil
	case bsontype.Null:
		return "", nil
	default:
		return "", fmt.Errorf("decode answer: bson %s: %w", rv.Type, errAnswerType)
	}
}

// Responses maps field ids to answers and is stored as one JSONB column.
type Responses map[string]Answer

func (r Responses) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Answer(r))
}

func (r *Responses) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = Responses{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan responses: unsupported type %T", src)
	}

	out := Responses{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan responses: %w", err)
	}
	*r = out
	return nil
}

// Keys returns the field ids in a stable order.
func (r Responses) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
