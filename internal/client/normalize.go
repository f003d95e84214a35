package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/google/uuid"
)

const maxPayloadInError = 200

func shapeError(operation, detail string, body []byte) error {
	payload := string(bytes.TrimSpace(body))
	if len(payload) > maxPayloadInError {
		payload = payload[:maxPayloadInError] + "..."
	}

	return &cml.UnexpectedResponseShapeError{Operation: operation, Detail: detail, Payload: payload}
}

func decodeJSON(operation string, body []byte) (interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw interface{}

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, shapeError(operation, "invalid JSON", body)
	}

	return raw, nil
}

// decodeEntity parses a single JSON object.
func decodeEntity(operation string, body []byte) (cml.Entity, error) {
	raw, err := decodeJSON(operation, body)
	if err != nil {
		return nil, err
	}

	object, ok := raw.(map[string]interface{})
	if !ok {
		return nil, shapeError(operation, "expected an object", body)
	}

	return cml.Entity(object), nil
}

// decodeCollection accepts an id-keyed mapping or a list of objects and
// returns an id-keyed collection. Plain ids in a list are returned
// separately so the caller can resolve them.
func decodeCollection(operation string, body []byte) (cml.Collection, []string, error) {
	raw, err := decodeJSON(operation, body)
	if err != nil {
		return nil, nil, err
	}

	collection := cml.Collection{}

	switch value := raw.(type) {
	case nil:
		return collection, nil, nil
	case map[string]interface{}:
		for id, item := range value {
			if object, ok := item.(map[string]interface{}); ok {
				collection[id] = cml.Entity(object)

				continue
			}

			collection[id] = cml.Entity{"id": id, "value": item}
		}

		return collection, nil, nil
	case []interface{}:
		var ids []string

		for _, item := range value {
			switch element := item.(type) {
			case string:
				ids = append(ids, element)
			case map[string]interface{}:
				entity := cml.Entity(element)
				if entity.ID() == "" {
					return nil, nil, shapeError(operation, "list element without id", body)
				}

				collection[entity.ID()] = entity
			default:
				return nil, nil, shapeError(operation, fmt.Sprintf("unsupported list element %T", item), body)
			}
		}

		return collection, ids, nil
	default:
		return nil, nil, shapeError(operation, "expected an object or a list", body)
	}
}

// decodeIDList accepts a list of ids, a string of ids or an id-keyed mapping.
func decodeIDList(operation string, body []byte) ([]string, error) {
	raw, err := decodeJSON(operation, body)
	if err != nil {
		return nil, err
	}

	switch value := raw.(type) {
	case nil:
		return []string{}, nil
	case []interface{}:
		ids := make([]string, 0, len(value))

		for _, item := range value {
			switch element := item.(type) {
			case string:
				ids = append(ids, element)
			case map[string]interface{}:
				id := cml.Entity(element).ID()
				if id == "" {
					return nil, shapeError(operation, "list element without id", body)
				}

				ids = append(ids, id)
			default:
				return nil, shapeError(operation, fmt.Sprintf("unsupported list element %T", item), body)
			}
		}

		return ids, nil
	case string:
		if ids, ok := SplitConcatenatedUUIDs(value); ok {
			return ids, nil
		}

		return strings.Fields(value), nil
	case map[string]interface{}:
		ids := make([]string, 0, len(value))
		for id := range value {
			ids = append(ids, id)
		}

		sort.Strings(ids)

		return ids, nil
	default:
		return nil, shapeError(operation, "expected a list, a string or an object", body)
	}
}

// SplitConcatenatedUUIDs splits a string made of back-to-back UUIDs. ok is
// false unless every 36-character chunk parses as a UUID.
func SplitConcatenatedUUIDs(value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || len(value)%constants.UUIDLength != 0 {
		return nil, false
	}

	ids := make([]string, 0, len(value)/constants.UUIDLength)

	for i := 0; i < len(value); i += constants.UUIDLength {
		chunk := value[i : i+constants.UUIDLength]

		_, err := uuid.Parse(chunk)
		if err != nil {
			return nil, false
		}

		ids = append(ids, chunk)
	}

	return ids, true
}
