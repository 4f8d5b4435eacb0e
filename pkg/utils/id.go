package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a prefixed identifier, e.g. "artwork-5f3a...".
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
