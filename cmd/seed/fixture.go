// AngelaMos | 2026
// fixture.go

package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
)

//go:embed seed.yaml
var defaultFixture []byte

type fixture struct {
	Users       []fixtureUser       `yaml:"users"`
	Forms       []fixtureForm       `yaml:"forms"`
	Submissions []fixtureSubmission `yaml:"submissions"`
}

type fixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type fixtureForm struct {
	Key         string         `yaml:"key"`
	Owner       string         `yaml:"owner"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Fields      []fixtureField `yaml:"fields"`
}

type fixtureField struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Placeholder string   `yaml:"placeholder"`
	Options     []string `yaml:"options"`
}

type fixtureSubmission struct {
	Form      string         `yaml:"form"`
	User      string         `yaml:"user"`
	Responses map[string]any `yaml:"responses"`
}

// loadFixture reads path, or the embedded fixture when path is empty.
func loadFixture(path string) (*fixture, error) {
	data := defaultFixture
	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // operator supplied path
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		data = raw
	}

	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	return &fx, nil
}

func (f fixtureForm) request() form.CreateFormRequest {
	fields := make([]form.FieldInput, 0, len(f.Fields))
	for _, fd := range f.Fields {
		fields = append(fields, form.FieldInput{
			ID:          fd.ID,
			Label:       fd.Label,
			Type:        fd.Type,
			Placeholder: fd.Placeholder,
			Options:     fd.Options,
		})
	}

	return form.CreateFormRequest{
		Title:       f.Title,
		Description: f.Description,
		Fields:      fields,
	}
}

// answers converts YAML scalars and sequences into submission answers.
// Numbers keep their literal form.
func (s fixtureSubmission) answers() (submission.Responses, error) {
	out := make(submission.Responses, len(s.Responses))

	for fieldID, raw := range s.Responses {
		switch v := raw.(type) {
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				values = append(values, fmt.Sprint(item))
			}
			out[fieldID] = submission.Choices(values...)
		case map[string]any:
			return nil, fmt.Errorf("field %q: nested values are not answers", fieldID)
		case nil:
			out[fieldID] = submission.Text("")
		default:
			out[fieldID] = submission.Text(fmt.Sprint(v))
		}
	}

	return out, nil
}
