package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vestiga-portal/internal/applications/entities"

	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/PHONE1/messages", r.URL.Path)
		require.Equal(t, "Bearer token1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token1", "PHONE1", "verify1")

	id, err := client.SendMessage(context.Background(), "9999999999", "hello")
	require.NoError(t, err)
	require.Equal(t, "wamid.1", id)

	require.Equal(t, "whatsapp", received["messaging_product"])
	require.Equal(t, "9999999999", received["to"])
	text := received["text"].(map[string]interface{})
	require.Equal(t, "hello", text["body"])
}

func TestSendMessage_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token1", "PHONE1", "verify1")

	_, err := client.SendMessage(context.Background(), "9999999999", "hello")
	require.ErrorContains(t, err, "Invalid OAuth access token")
}

func TestSendMessage_MissingCredentials(t *testing.T) {
	client := NewClient("https://graph.facebook.com/v18.0", "", "", "verify1")

	_, err := client.SendMessage(context.Background(), "9999999999", "hello")
	require.ErrorContains(t, err, "credentials not configured")
}

func TestSendPaymentConfirmation_IncludesApplicationID(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token1", "PHONE1", "verify1")

	err := client.SendPaymentConfirmation(context.Background(), entities.Application{
		ID:            "A1",
		Name:          "Asha",
		Mobile:        "9999999999",
		PaymentStatus: entities.PaymentSuccess,
	})
	require.NoError(t, err)

	text := received["text"].(map[string]interface{})
	require.Contains(t, text["body"], "A1")
	require.Contains(t, text["body"], "SUCCESS")
}

func TestVerifyWebhook(t *testing.T) {
	client := NewClient("https://graph.facebook.com/v18.0", "token1", "PHONE1", "verify1")

	challenge, ok := client.VerifyWebhook("subscribe", "verify1", "12345")
	require.True(t, ok)
	require.Equal(t, "12345", challenge)

	_, ok = client.VerifyWebhook("subscribe", "wrong", "12345")
	require.False(t, ok)

	_, ok = client.VerifyWebhook("unsubscribe", "verify1", "12345")
	require.False(t, ok)
}
