package export

import (
	"fmt"
	"io"
)

// Serializer produces the JSON form of a document.
type Serializer interface {
	Serialize() (string, error)
}

// JSON writes the serialized document as is, with nothing wrapped around it.
func JSON(w io.Writer, src Serializer) error {
	data, err := src.Serialize()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, data); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
