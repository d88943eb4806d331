package blob

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrNotFound, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("head object %q: %w", "a", ErrNotFound), want: true},
		{name: "no such key", err: fmt.Errorf("copy: %w", &types.NoSuchKey{}), want: true},
		{name: "head not found", err: &types.NotFound{}, want: true},
		{name: "generic api not found", err: &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}, want: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
		{name: "invalid key", err: ErrInvalidKey, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNotFound(tt.err), tt.name)
	}
}
