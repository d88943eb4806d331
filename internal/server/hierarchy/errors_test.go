package hierarchy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := storageUnavailable("list", "files/a/", cause)

	assert.Equal(t, `list "files/a/": storage unavailable: connection reset by peer`, err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("gateway: %w", err)
	assert.Equal(t, KindStorageUnavailable, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindStorageUnavailable))
	assert.False(t, IsKind(wrapped, KindNotFound))

	assert.Equal(t, Kind(""), KindOf(cause))
	assert.False(t, IsKind(nil, KindNotFound))

	assert.Equal(t, "create_folder: actor is required", invalidRequest("create_folder", "actor is required").Error())
}
