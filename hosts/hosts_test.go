package hosts_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func TestURLToHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://files.example.org/a?b=c", "files.example.org."},
		{"https://Files.Example.ORG./", "files.example.org."},
		{"https://files.example.org:8443/", "files.example.org.8443"},
		{"https://files.example.org:443/", "files.example.org."},
		{"http://files.example.org:80/", "files.example.org."},
		{"http://files.example.org:443/", "files.example.org.443"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := hosts.URLToHost(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("relative url", func(t *testing.T) {
		_, err := hosts.URLToHost("/just/a/path")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})
}

func TestNormalizeHost(t *testing.T) {
	got, err := hosts.NormalizeHost("FILES.example.org:8443")
	require.NoError(t, err)
	require.Equal(t, "files.example.org.8443", got)

	got, err = hosts.NormalizeHost("files.example.org")
	require.NoError(t, err)
	require.Equal(t, "files.example.org.", got)

	_, err = hosts.NormalizeHost("")
	require.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = hosts.NormalizeHost("evil.org/path")
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestAllowList(t *testing.T) {
	ctx := context.Background()
	allow := hosts.NewAllowList(memory.New().Hosts())

	added, err := allow.Add(ctx, "Files.Example.org")
	require.NoError(t, err)
	require.Equal(t, "files.example.org.", added)

	_, err = allow.Add(ctx, "https://wiki.example.org:8443/")
	require.NoError(t, err)

	_, err = allow.Add(ctx, "10.0.0.1")
	require.NoError(t, err)

	list, err := allow.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"files.example.org.", "wiki.example.org.8443", "10.0.0.1."}, list)

	t.Run("allowed", func(t *testing.T) {
		host, err := allow.CheckURL(ctx, "https://files.example.org/docs")
		require.NoError(t, err)
		require.Equal(t, "files.example.org.", host)
	})

	t.Run("port must match", func(t *testing.T) {
		_, err := allow.CheckURL(ctx, "https://wiki.example.org/")
		require.ErrorIs(t, err, errors.ErrUnknownHost)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := allow.CheckURL(ctx, "https://evil.example.net/")
		require.ErrorIs(t, err, errors.ErrUnknownHost)
	})

	t.Run("remove stored value", func(t *testing.T) {
		require.NoError(t, allow.Remove(ctx, "wiki.example.org.8443"))
		_, err := allow.CheckURL(ctx, "https://wiki.example.org:8443/")
		require.ErrorIs(t, err, errors.ErrUnknownHost)
	})
}
