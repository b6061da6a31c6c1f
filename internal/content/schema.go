package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed pack.schema.json
var packSchemaJSON string

var packSchema = jsonschema.MustCompileString("pack.schema.json", packSchemaJSON)

// ValidatePackJSON checks raw pack JSON against the embedded schema. This
// is the strict authoring-side gate: it rejects shapes the runtime decoder
// would accept and quietly fail closed, such as unknown condition types or
// misspelled keys.
func ValidatePackJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse pack: %w", err)
	}
	if err := packSchema.Validate(doc); err != nil {
		return fmt.Errorf("pack schema: %w", err)
	}
	return nil
}
