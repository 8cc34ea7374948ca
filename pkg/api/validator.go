package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (c ClientCommand) Validate() error {
	if c.Action == "" {
		return errors.New("action is required")
	}
	return nil
}

func (r EntityRefView) Validate() error {
	if r.ID == "" && r.Type == "" && r.Name == "" && r.Position == nil && len(r.Attrs) == 0 {
		return errors.New("empty entity reference")
	}
	return nil
}

func (a ActionRequest) Validate() error {
	if a.Action == "" {
		return errors.New("action name is required")
	}
	if err := a.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if a.Target != nil {
		if err := a.Target.Validate(); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	return nil
}

func (p ActionsPayload) Validate() error {
	if len(p.Actions) == 0 {
		return errors.New("actions batch is empty")
	}
	for i, a := range p.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("actions[%d]: %w", i, err)
		}
	}
	return nil
}

// Структурная схема пакета действий. Дополняет Validate():
// схема отсекает структурно невалидный JSON до декодирования в DTO.
const actionsPayloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["actions"],
  "properties": {
    "actions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["action", "source"],
        "properties": {
          "action": {"type": "string", "minLength": 1},
          "source": {"$ref": "#/$defs/entityRef"},
          "target": {"$ref": "#/$defs/entityRef"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "entityRef": {
      "type": "object",
      "properties": {
        "id": {"type": "string"},
        "type": {"type": "string"},
        "name": {"type": "string"},
        "position": {
          "type": "array",
          "items": {"type": "integer"},
          "minItems": 2,
          "maxItems": 2
        },
        "attrs": {"type": "object"}
      },
      "additionalProperties": false
    }
  }
}`

var compiledActionsSchema = jsonschema.MustCompileString("actions_payload.json", actionsPayloadSchema)

// ParseActionsPayload валидирует сырой пэйлоад по схеме и декодирует его.
func ParseActionsPayload(raw json.RawMessage) (ActionsPayload, error) {
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return ActionsPayload{}, fmt.Errorf("пэйлоад не является JSON: %w", err)
	}
	if err := compiledActionsSchema.Validate(generic); err != nil {
		return ActionsPayload{}, fmt.Errorf("пэйлоад не соответствует схеме: %w", err)
	}

	var p ActionsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ActionsPayload{}, err
	}
	if err := p.Validate(); err != nil {
		return ActionsPayload{}, err
	}
	return p, nil
}
