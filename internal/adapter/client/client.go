package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"resume-analyzer/internal/domain"
)

// API is the HTTP transport the review CLI drives the service with. It
// satisfies the uploader, payment gateway and payment history interfaces of
// the orchestrators. Every request shares one bounded-timeout client;
// transport failures surface as NetworkError, non-2xx responses as
// ExternalServiceError.
type API struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Upload posts the selected file as the multipart field "resume" and returns
// the file URL the service assigned.
func (a *API) Upload(ctx context.Context, file domain.FileSelection) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, file.Name))
	h.Set("Content-Type", file.MIMEType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/resumes", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		FileURL string `json:"fileUrl"`
	}
	if err := a.do(req, "upload", &out); err != nil {
		return "", err
	}
	return out.FileURL, nil
}

// Ready always reports true: readiness of the Stripe client is the
// service's concern, surfaced through its error responses.
func (a *API) Ready() bool { return true }

func (a *API) CreateIntent(ctx context.Context, userID string, amount int64) (domain.PaymentIntent, error) {
	payload := map[string]interface{}{"userId": userID, "amount": amount}
	var out struct {
		ID           string `json:"id"`
		ClientSecret string `json:"clientSecret"`
	}
	if err := a.postJSON(ctx, "/api/payments/intent", "create payment intent", payload, &out); err != nil {
		return domain.PaymentIntent{}, err
	}
	return domain.PaymentIntent{ID: out.ID, ClientSecret: out.ClientSecret, Amount: amount}, nil
}

func (a *API) Confirm(ctx context.Context, intentID, paymentMethodID string) error {
	payload := map[string]interface{}{
		"paymentIntentId": intentID,
		"paymentMethodId": paymentMethodID,
	}
	return a.postJSON(ctx, "/api/payments/confirm", "confirm payment", payload, nil)
}

func (a *API) Append(ctx context.Context, rec domain.PaymentRecord) error {
	return a.postJSON(ctx, "/api/payments/history", "record payment", rec, nil)
}

func (a *API) List(ctx context.Context, userID string) ([]domain.PaymentRecord, error) {
	u := a.baseURL + "/api/payments/history?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var out []domain.PaymentRecord
	if err := a.do(req, "payment history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) postJSON(ctx context.Context, path, op string, payload, out interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, op, out)
}

func (a *API) do(req *http.Request, op string, out interface{}) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.ExternalServiceError{
			Service: "resume-analyzer api",
			Status:  resp.StatusCode,
			Message: op + ": " + strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	return nil
}
