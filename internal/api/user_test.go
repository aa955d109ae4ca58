package api

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserInfo(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"user_info":{"email":"u@example.com","display_name":"Test User","premium":"yes"}`)
	})

	client := newTestClient(t, srv.URL)

	info, err := client.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", info.Email)
	assert.Equal(t, "Test User", info.DisplayName)
	assert.True(t, info.Premium)
}

func TestGetUserInfo_FreeTier(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"user_info":{"email":"u@example.com","premium":"no"}`)
	})

	client := newTestClient(t, srv.URL)

	info, err := client.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Premium)
}

func TestGetQuota(t *testing.T) {
	srv := newFormServer(t, func(string, url.Values) string {
		return successEnvelope(`"storage_limit":"53687091200","used_storage_size":"1073741824"`)
	})

	client := newTestClient(t, srv.URL)

	quota, err := client.GetQuota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1073741824), quota.Used)
	assert.Equal(t, int64(53687091200), quota.Total)
	assert.Equal(t, "/api/1.5/user/get_limits.php", srv.paths[0])
}
