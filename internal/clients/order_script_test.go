package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thriftshop/internal/domain"
)

func payload() OrderPayload {
	return OrderPayload{
		OrderRef:        "ref-1",
		CustomerDetails: domain.CustomerDetails{Name: "Asha", Phone: "98", Address: "a", City: "b", State: "c", Pincode: "1"},
		CartItems:       []domain.CartItem{{ID: "p1", Name: "Tee", Price: 300}},
		Subtotal:        decimal.NewFromInt(300),
		Discount:        decimal.Zero,
		Total:           decimal.NewFromInt(300),
	}
}

func TestSubmit_Outcomes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"result":"success"}`))
		case "/bare":
			w.WriteHeader(http.StatusNoContent)
		case "/refused":
			_, _ = w.Write([]byte(`{"result":"error","error":"sheet locked"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewOrderScript(srv.URL+"/ok", 600, time.Second)
	require.NoError(t, c.Submit(ctx, payload()))
	assert.Equal(t, "ref-1", got["orderRef"])
	assert.Contains(t, got, "customerDetails")
	assert.Contains(t, got, "cartItems")

	c.URL = srv.URL + "/bare"
	assert.NoError(t, c.Submit(ctx, payload()))

	var se *domain.SubmissionError
	c.URL = srv.URL + "/refused"
	err := c.Submit(ctx, payload())
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "sheet locked")

	c.URL = srv.URL + "/broken"
	err = c.Submit(ctx, payload())
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
}

func TestSubmit_TruncatedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte(`{"res`))
	}))
	defer srv.Close()

	err := NewOrderScript(srv.URL, 600, time.Second).Submit(context.Background(), payload())
	var se *domain.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusOK, se.Status)
	assert.Contains(t, se.Error(), "reading reply")
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewOrderScript(url, 600, time.Second).Submit(context.Background(), payload())
	var se *domain.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Zero(t, se.Status)
}
