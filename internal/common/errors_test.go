package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := NewUpload("error uploading avatar", cause)

	assert.Contains(t, e.Error(), "upload")
	assert.Contains(t, e.Error(), "error uploading avatar")
	require.ErrorIs(t, e, cause, "cause must stay reachable via errors.Is")
}

func TestKindOf_Classified(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{NewValidation("all fields are required"), KindValidation},
		{NewConflict("user already exists"), KindConflict},
		{NewNotFound("user does not exist"), KindNotFound},
		{NewAuth("invalid credentials"), KindAuth},
		{NewUpload("upload failed", nil), KindUpload},
		{NewPersistence("db down", nil), KindPersistence},
	}

	for _, tc := range tests {
		kind, ok := KindOf(tc.err)
		require.True(t, ok, "expected %v to be classified", tc.err)
		assert.Equal(t, tc.want, kind)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	e := fmt.Errorf("register: %w", NewConflict("user already exists"))

	kind, ok := KindOf(e)
	require.True(t, ok)
	assert.Equal(t, KindConflict, kind)
}

func TestKindOf_Unclassified(t *testing.T) {
	_, ok := KindOf(errors.New("raw db error"))
	require.False(t, ok, "a raw error must not be treated as classified")
}
