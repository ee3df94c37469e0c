package mailer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_EmptyURLDisablesDelivery(t *testing.T) {
	assert.Nil(t, New("", 5*time.Second, zap.NewNop()))
}

func TestSendPasswordReset(t *testing.T) {
	var received resetMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(srv.URL, 5*time.Second, zap.NewNop())
	require.NotNil(t, m)

	err := m.SendPasswordReset("alice@example.com", "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", received.To)
	assert.Contains(t, received.Body, "tok-123")
}

func TestSendPasswordReset_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := New(srv.URL, 5*time.Second, zap.NewNop())
	err := m.SendPasswordReset("alice@example.com", "tok-123")
	assert.Error(t, err)
}
