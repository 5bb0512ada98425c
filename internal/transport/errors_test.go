package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{504, KindTimeout},
		{500, KindTimeout},
		{502, KindTimeout},
		{503, KindTimeout},
		{400, KindHTTPError},
		{404, KindHTTPError},
		{401, KindHTTPError},
		{429, KindHTTPError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := classifyStatus(tt.status, "body")
			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestClassifyRequestError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: KindTimeout,
		},
		{
			name: "wrapped context deadline",
			err:  &url.Error{Op: "Post", URL: "http://x", Err: context.DeadlineExceeded},
			want: KindTimeout,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")},
			want: KindNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRequestError(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.NotNil(t, got.Err, "classified error should keep the cause for Unwrap")
		})
	}
}

func TestKindOf(t *testing.T) {
	te := NewError(KindProtocolMismatch, "html body", nil)
	wrapped := fmt.Errorf("submit turn: %w", te)

	kind, ok := KindOf(wrapped)
	require.True(t, ok, "KindOf() should find a transport error through wrapping")
	assert.Equal(t, KindProtocolMismatch, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok, "KindOf() should not classify foreign errors")
}
