package validation

import (
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-grubdash/internal/pipeline"
)

// StringField fails with message unless the payload's field is a non-empty string.
func StringField(k *Checker, field, message string) pipeline.Step {
	return fieldStep("has "+field, field, message, k.NonEmptyString)
}

// IntegerField fails with message unless the payload's field is a positive integer.
func IntegerField(k *Checker, field, message string) pipeline.Step {
	return fieldStep("has "+field, field, message, k.PositiveInteger)
}

// ListField fails with message unless the payload's field is a non-empty array.
func ListField(k *Checker, field, message string) pipeline.Step {
	return fieldStep("has "+field, field, message, func(v any) bool {
		_, ok := k.NonEmptyList(v)
		return ok
	})
}

// OneOfField fails with message unless the payload's field is one of allowed.
func OneOfField(k *Checker, field, message string, allowed ...string) pipeline.Step {
	return fieldStep("valid "+field, field, message, func(v any) bool {
		return k.OneOf(v, allowed...)
	})
}

func fieldStep(name, field, message string, ok func(any) bool) pipeline.Step {
	return pipeline.NewStep(name, func(c *gin.Context) error {
		p, err := PayloadFrom(c)
		if err != nil {
			return err
		}
		if !ok(p[field]) {
			return pipeline.Validation("%s", message)
		}
		return nil
	})
}

// IDMatchesRoute fails when the payload carries an id that differs from the
// route parameter param. A missing, null or empty id is accepted. noun
// prefixes the message, e.g. "Dish id does not match route id. Dish: 1, Route: 2".
func IDMatchesRoute(param, noun string) pipeline.Step {
	return pipeline.NewStep("id matches route", func(c *gin.Context) error {
		p, err := PayloadFrom(c)
		if err != nil {
			return err
		}
		routeID := c.Param(param)
		switch id := p["id"].(type) {
		case nil:
			return nil
		case string:
			if id == "" || id == routeID {
				return nil
			}
		}
		return pipeline.Validation("%s id does not match route id. %s: %v, Route: %s", noun, noun, p["id"], routeID)
	})
}
