package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		localHost bool
		override  string
		want      string
	}{
		{
			name:      "local development wins over override",
			localHost: true,
			override:  "https://gateway.example.com/api-proxy",
			want:      LocalBaseURL,
		},
		{
			name:      "local development with no override",
			localHost: true,
			want:      LocalBaseURL,
		},
		{
			name:     "injected override",
			override: "https://gateway.example.com/api-proxy",
			want:     "https://gateway.example.com/api-proxy",
		},
		{
			name:     "override trailing slash trimmed",
			override: "https://gateway.example.com/",
			want:     "https://gateway.example.com",
		},
		{
			name: "same-origin relative fallback",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.localHost, tt.override))
		})
	}
}
