package config

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// validate checks a decoded YAML document against the embedded schema.
func validate(doc map[string]interface{}) error {
	if doc == nil {
		doc = map[string]interface{}{}
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "schema")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return errors.Errorf("invalid scene: %s", strings.Join(msgs, "; "))
}
