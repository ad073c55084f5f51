// Package validation decodes request payloads and provides the field checks
// used by the resource pipelines.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/imrishuroy/go-grubdash/internal/pipeline"
)

// Payload is the entity object submitted under the "data" key.
type Payload map[string]any

const payloadKey = "validation.payload"

type envelope struct {
	Data Payload `json:"data"`
}

// PayloadFrom returns the request's data object, decoding the body on first
// use. An empty body or a missing/null data key yields an empty Payload.
func PayloadFrom(c *gin.Context) (Payload, error) {
	if p, ok := c.Get(payloadKey); ok {
		return p.(Payload), nil
	}
	var env envelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		return nil, pipeline.Validation("Request body must be a JSON object with a data object.")
	}
	if env.Data == nil {
		env.Data = Payload{}
	}
	c.Set(payloadKey, env.Data)
	return env.Data, nil
}

// Decode copies p into out, ignoring the keys in skip and any key out has no
// field for. A value of the wrong type for its field is a validation error.
func Decode(p Payload, out any, skip ...string) error {
	filtered := make(Payload, len(p))
	for k, v := range p {
		if !slices.Contains(skip, k) {
			filtered[k] = v
		}
	}
	b, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return pipeline.Validation("Request data has an invalid %s property.", te.Field)
		}
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// MergeExisting returns rec with each of its properties overwritten by the
// payload value of the same name when that value differs. Properties named in
// skip are never touched and payload keys rec does not have are ignored.
func MergeExisting[T any](rec T, p Payload, skip ...string) (T, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode record: %w", err)
	}
	current := Payload{}
	if err := json.Unmarshal(b, &current); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}

	changed := false
	for key, old := range current {
		if slices.Contains(skip, key) {
			continue
		}
		if v, ok := p[key]; ok && !reflect.DeepEqual(old, v) {
			current[key] = v
			changed = true
		}
	}
	if !changed {
		return rec, nil
	}

	var out T
	if err := Decode(current, &out); err != nil {
		return rec, err
	}
	return out, nil
}
