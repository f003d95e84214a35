package tools

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/mark3labs/mcp-go/mcp"
)

// arguments wraps a tool call. Strings and bools use the request's own
// accessors; integers are checked here so fractional values are rejected.
type arguments struct {
	mcp.CallToolRequest
}

func (a arguments) value(key string) (any, bool) {
	value, ok := a.GetArguments()[key]

	return value, ok && value != nil
}

func (a arguments) requireString(key string) (string, error) {
	if _, ok := a.value(key); !ok {
		return "", fmt.Errorf("%w: %s is required", constants.ErrInvalidArgument, key)
	}

	s, err := a.RequireString(key)
	if err != nil || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", constants.ErrInvalidArgument, key)
	}

	return s, nil
}

func (a arguments) getString(key, fallback string) string {
	return a.GetString(key, fallback)
}

func (a arguments) getBool(key string, fallback bool) bool {
	return a.GetBool(key, fallback)
}

func (a arguments) getInt(key string, fallback int) (int, error) {
	value, ok := a.value(key)
	if !ok {
		return fallback, nil
	}

	n, err := toInt(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %w", constants.ErrInvalidArgument, key, err)
	}

	return n, nil
}

// optionalInt returns nil when the argument is absent.
func (a arguments) optionalInt(key string) (*int, error) {
	if _, ok := a.value(key); !ok {
		return nil, nil //nolint:nilnil // absent is not an error
	}

	n, err := a.getInt(key, 0)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (a arguments) intSlice(key string, fallback []int) ([]int, error) {
	value, ok := a.value(key)
	if !ok {
		return fallback, nil
	}

	return toIntSlice(key, value)
}

func toIntSlice(key string, value any) ([]int, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array of integers", constants.ErrInvalidArgument, key)
	}

	result := make([]int, 0, len(items))

	for _, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %w", constants.ErrInvalidArgument, key, err)
		}

		result = append(result, n)
	}

	return result, nil
}

func (a arguments) stringMap(key string) (map[string]string, error) {
	value, ok := a.value(key)
	if !ok {
		return nil, nil //nolint:nilnil // absent is not an error
	}

	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", constants.ErrInvalidArgument, key)
	}

	result := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			result[k] = s

			continue
		}

		result[k] = fmt.Sprint(v)
	}

	return result, nil
}

// instanceMap decodes {"1": [10, 20]} into MST instance to VLAN lists.
func (a arguments) instanceMap(key string) (map[int][]int, error) {
	value, ok := a.value(key)
	if !ok {
		return nil, nil //nolint:nilnil // absent is not an error
	}

	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", constants.ErrInvalidArgument, key)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	result := make(map[int][]int, len(raw))

	for _, k := range keys {
		instance, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %s key %q is not an instance number", constants.ErrInvalidArgument, key, k)
		}

		vlans, err := toIntSlice(k, raw[k])
		if err != nil {
			return nil, err
		}

		result[instance] = vlans
	}

	return result, nil
}

func toInt(value any) (int, error) {
	switch n := value.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("must be an integer, got %v", n)
		}

		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", n)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", value)
	}
}
