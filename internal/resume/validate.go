package resume

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var schemaJSON []byte

// Validate checks a built document against the embedded JSON schema. Build
// already enforces the full-name rule; this catches shape drift between the
// transform and the rendering template's expectations.
func Validate(data *Data) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}
