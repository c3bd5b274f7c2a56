package openapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pushnotify/api/openapi"
)

func TestGetSwagger(t *testing.T) {
	swagger, err := openapi.GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))

	tests := []struct {
		path        string
		method      string
		operationID string
	}{
		{path: "/channel/status", method: "GET", operationID: "GetChannelStatus"},
		{path: "/channel/connect", method: "POST", operationID: "PostChannelConnect"},
		{path: "/channel/disconnect", method: "POST", operationID: "PostChannelDisconnect"},
	}
	for _, tt := range tests {
		t.Run(tt.operationID, func(t *testing.T) {
			item := swagger.Paths.Find(tt.path)
			require.NotNil(t, item)
			op := item.GetOperation(tt.method)
			require.NotNil(t, op)
			assert.Equal(t, tt.operationID, op.OperationID)
		})
	}

	// 串流端點不在控制介面文件中
	assert.Nil(t, swagger.Paths.Find("/notifications/stream"))
}
