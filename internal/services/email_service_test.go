package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithoutAPIKeyIsNoop(t *testing.T) {
	svc := NewEmailService("", "orders@luxentra.example")

	result, err := svc.Send(OrderConfirmation{Email: "nadia@example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.JSONEq(t, `{"skipped":true}`, string(result.Body))
}

func TestSendPostsToProvider(t *testing.T) {
	var got emailPayload
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer server.Close()

	svc := NewEmailService("re_test_key", "orders@luxentra.example")
	svc.apiURL = server.URL
	svc.client = server.Client()

	result, err := svc.Send(OrderConfirmation{
		Email:        "nadia@example.com",
		OrderNumber:  "LUX-424242001",
		CustomerName: "Nadia Rahman",
		OrderTotal:   1060,
		Items: []ConfirmationItem{
			{ProductName: "Denim Trucker Jacket", Quantity: 2, Price: 500},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)

	assert.Equal(t, "Bearer re_test_key", auth)
	assert.Equal(t, "orders@luxentra.example", got.From)
	assert.Equal(t, []string{"nadia@example.com"}, got.To)
	assert.Contains(t, got.Subject, "LUX-424242001")
	assert.Contains(t, got.HTML, "Nadia Rahman")
	assert.Contains(t, got.HTML, "Denim Trucker Jacket")
	assert.Contains(t, got.HTML, "1,060")
}

func TestSendSurfacesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid to address"}`))
	}))
	defer server.Close()

	svc := NewEmailService("re_test_key", "orders@luxentra.example")
	svc.apiURL = server.URL
	svc.client = server.Client()

	result, err := svc.Send(OrderConfirmation{Email: "not-an-address"})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
	assert.True(t, strings.Contains(string(result.Body), "invalid to address"))
}
