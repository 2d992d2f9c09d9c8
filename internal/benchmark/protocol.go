// internal/benchmark/protocol.go
package benchmark

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the wire contract for the worker's single output document.
// Anything that fails it is a total worker failure, never a partial decode.
const resultSchema = `{
  "type": "object",
  "required": ["load_seconds", "rows"],
  "properties": {
    "load_seconds": {"type": "number", "minimum": 0},
    "latency_avg_seconds": {"type": "number"},
    "rows": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["run", "latency_seconds", "estimated_new_tokens", "estimated_tokens_per_second"],
        "properties": {
          "run": {"type": "integer", "minimum": 1},
          "latency_seconds": {"type": "number", "minimum": 0},
          "estimated_new_tokens": {"type": "integer", "minimum": 0},
          "estimated_tokens_per_second": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// EncodeResult writes the worker result document to w. The worker calls this
// exactly once, against stdout, with no trailing newline.
func EncodeResult(w io.Writer, result *WorkerResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DecodeResult validates raw worker output against the wire schema and
// decodes it. The row count must match the configured run count; a document
// with the wrong number of rows is as untrustworthy as a malformed one.
func DecodeResult(data []byte, runs int) (*WorkerResult, error) {
	validation, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("worker output is not valid JSON: %w", err)
	}
	if !validation.Valid() {
		errs := validation.Errors()
		if len(errs) > 0 {
			return nil, fmt.Errorf("worker output failed schema validation: %s", errs[0])
		}
		return nil, fmt.Errorf("worker output failed schema validation")
	}

	var result WorkerResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode worker output: %w", err)
	}
	if len(result.Rows) != runs {
		return nil, fmt.Errorf("worker emitted %d rows, expected %d", len(result.Rows), runs)
	}
	return &result, nil
}
