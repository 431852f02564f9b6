// AngelaMos | 2026
// entity.go

package form

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldDropdown FieldType = "dropdown"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldEmail, FieldTel, FieldDate,
		FieldTextarea, FieldSelect, FieldDropdown, FieldCheckbox, FieldRadio:
		return true
	}
	return false
}

// RequiresOptions reports whether answers are picked from Field.Options.
func (t FieldType) RequiresOptions() bool {
	switch t {
	case FieldSelect, FieldDropdown, FieldCheckbox, FieldRadio:
		return true
	}
	return false
}

// MultiValue reports whether an answer may hold several options.
func (t FieldType) MultiValue() bool {
	return t == FieldCheckbox
}

// Field ids are stable across edits; submissions key their answers by them.
type Field struct {
	ID          string    `json:"id"                    bson:"id"`
	Label       string    `json:"label"                 bson:"label"`
	Type        FieldType `json:"type"                  bson:"type"`
	Placeholder string    `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"     bson:"options,omitempty"`
}

// Fields is stored as a single JSONB column.
type Fields []Field

func (f Fields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f)
}

func (f *Fields) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*f = Fields{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan fields: unsupported type %T", src)
	}

	var out Fields
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan fields: %w", err)
	}
	if out == nil {
		out = Fields{}
	}
	*f = out
	return nil
}

// Lookup returns the field with the given id.
func (f Fields) Lookup(id string) (Field, bool) {
	for _, field := range f {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

type Form struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Fields      Fields    `db:"fields"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
