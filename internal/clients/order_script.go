package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"thriftshop/internal/domain"
	"thriftshop/internal/log"
)

// OrderPayload is the body posted to the order automation script.
type OrderPayload struct {
	OrderRef        string                 `json:"orderRef"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	CartItems       []domain.CartItem      `json:"cartItems"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Discount        decimal.Decimal        `json:"discount"`
	Total           decimal.Decimal        `json:"total"`
}

type scriptReply struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// OrderScript posts orders to a spreadsheet-backed automation endpoint.
type OrderScript struct {
	URL     string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewOrderScript allows perMinute submissions with a small burst.
func NewOrderScript(url string, perMinute int, timeout time.Duration) *OrderScript {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &OrderScript{
		URL:     url,
		HTTP:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 5),
	}
}

// Submit returns nil only when the script accepted the order: a 2xx with either no
// JSON body or {"result":"success"}. Everything else is a *domain.SubmissionError.
func (c *OrderScript) Submit(ctx context.Context, p OrderPayload) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.SubmissionError{Err: fmt.Errorf("rate limited: %w", err)}
	}
	body, err := json.Marshal(p)
	if err != nil {
		return &domain.SubmissionError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return &domain.SubmissionError{Err: err}
	}
	// Apps Script rejects preflighted requests, so the JSON goes as text/plain.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.SubmissionError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	if readErr != nil {
		// the script may have recorded the order; the shopper still gets the manual fallback
		log.L().Warn("order_script_read", zap.String("order", p.OrderRef), zap.Int("status", resp.StatusCode), zap.Error(readErr))
		return &domain.SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("reading reply: %w", readErr)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var reply scriptReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		// a bare 2xx with a non-JSON body still means accepted
		return nil
	}
	if !strings.EqualFold(reply.Result, "success") {
		msg := reply.Error
		if msg == "" {
			msg = "script returned result " + fmt.Sprintf("%q", reply.Result)
		}
		return &domain.SubmissionError{Status: resp.StatusCode, Err: errors.New(msg)}
	}
	return nil
}
