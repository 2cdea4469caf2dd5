package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const exceptionPath = "/notificaciones/excepciones"

type HTTPNotifier struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPNotifier(baseURL string, httpClient *http.Client) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// NotifyException posts the notice. The exception id doubles as the
// idempotency key so the receiver can drop redeliveries.
func (n *HTTPNotifier) NotifyException(ctx context.Context, notice ExceptionNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+exceptionPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", fmt.Sprintf("exception-%d", notice.ExceptionID))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// already delivered
		return nil
	default:
		return fmt.Errorf("notification service unexpected status: %d", resp.StatusCode)
	}
}
