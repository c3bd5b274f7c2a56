package relay

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pushnotify/adapters/sse"
	"pushnotify/api/openapi"
)

func TestServer_ControlResponsesMatchDocument(t *testing.T) {
	swagger, err := openapi.GetSwagger()
	require.NoError(t, err)
	router, err := legacy.NewRouter(swagger)
	require.NoError(t, err)

	status := func(channel *sse.MockIChannel) {
		channel.EXPECT().State().Return(sse.StateConnecting)
		channel.EXPECT().IsConnected().Return(false)
		channel.EXPECT().Attempts().Return(0)
		channel.EXPECT().Identity().Return(sse.Identity("u-42"), true)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		mockSetup  func(*sse.MockIChannel)
		wantStatus int
	}{
		{
			name:       "status",
			method:     http.MethodGet,
			path:       "/channel/status",
			mockSetup:  status,
			wantStatus: http.StatusOK,
		},
		{
			name:   "connect accepted",
			method: http.MethodPost,
			path:   "/channel/connect",
			body:   `{"identity":"u-42"}`,
			mockSetup: func(channel *sse.MockIChannel) {
				channel.EXPECT().Connect(sse.Identity("u-42")).Return(nil)
				status(channel)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:   "connect without credential",
			method: http.MethodPost,
			path:   "/channel/connect",
			body:   `{"identity":"u-42"}`,
			mockSetup: func(channel *sse.MockIChannel) {
				channel.EXPECT().Connect(sse.Identity("u-42")).Return(sse.ErrCredentialMissing)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "disconnect",
			method: http.MethodPost,
			path:   "/channel/disconnect",
			mockSetup: func(channel *sse.MockIChannel) {
				channel.EXPECT().Disconnect()
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			channel := sse.NewMockIChannel(ctrl)
			tt.mockSetup(channel)
			server := NewServer(channel)

			newRequest := func() *http.Request {
				req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				if tt.body != "" {
					req.Header.Set("Content-Type", "application/json")
				}
				return req
			}

			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, newRequest())
			require.Equal(t, tt.wantStatus, w.Code)

			req := newRequest()
			route, pathParams, err := router.FindRoute(req)
			require.NoError(t, err)
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			require.NoError(t, openapi3filter.ValidateRequest(context.Background(), input))
			require.NoError(t, openapi3filter.ValidateResponse(context.Background(), &openapi3filter.ResponseValidationInput{
				RequestValidationInput: input,
				Status:                 w.Code,
				Header:                 w.Header(),
				Body:                   io.NopCloser(bytes.NewReader(w.Body.Bytes())),
			}))
		})
	}
}
