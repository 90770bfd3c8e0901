package parse

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errEmptyList = errors.New("empty list")

// unmarshalObjectOrFirst decodes `body` into out, when the payload is a list the
// first element is used.
func unmarshalObjectOrFirst(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			return errEmptyList
		}
		return json.Unmarshal(list[0], out)
	}
	return json.Unmarshal(trimmed, out)
}
