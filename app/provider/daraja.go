package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	darajaTimestampLayout = "20060102150405"
	darajaTransactionType = "CustomerPayBillOnline"
)

type DarajaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	HTTPTimeout    time.Duration
}

// DarajaProvider talks to the Safaricom Daraja API: an OAuth
// client-credentials exchange followed by the STK push initiation call.
type DarajaProvider struct {
	cfg    DarajaConfig
	client *http.Client
	now    func() time.Time
}

func NewDarajaProvider(cfg DarajaConfig) *DarajaProvider {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &DarajaProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (p *DarajaProvider) Code() int32 {
	return CodeMpesa
}

func (p *DarajaProvider) InitiateSTKPush(ctx context.Context, input *PushInput) (*PushOutput, error) {
	if strings.TrimSpace(p.cfg.ConsumerKey) == "" || strings.TrimSpace(p.cfg.ConsumerSecret) == "" {
		return nil, errors.New("mpesa consumer credentials are not configured")
	}
	if strings.TrimSpace(p.cfg.Shortcode) == "" || strings.TrimSpace(p.cfg.Passkey) == "" {
		return nil, errors.New("mpesa shortcode or passkey is not configured")
	}

	accessToken, err := p.fetchAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := p.now().Format(darajaTimestampLayout)
	orderRef := strconv.FormatUint(input.OrderID, 10)

	request := map[string]interface{}{
		"BusinessShortCode": p.cfg.Shortcode,
		"Password":          darajaPassword(p.cfg.Shortcode, p.cfg.Passkey, timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   darajaTransactionType,
		"Amount":            input.Amount,
		"PartyA":            input.PhoneNumber,
		"PartyB":            p.cfg.Shortcode,
		"PhoneNumber":       input.PhoneNumber,
		"CallBackURL":       p.cfg.CallbackURL,
		"AccountReference":  orderRef,
		"TransactionDesc":   input.Description,
	}

	body, err := p.postJSON(ctx, "/mpesa/stkpush/v1/processrequest", accessToken, request)
	if err != nil {
		return nil, err
	}

	var payload struct {
		MerchantRequestID   string `json:"MerchantRequestID"`
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		ResponseCode        string `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
		CustomerMessage     string `json:"CustomerMessage"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &PushOutput{
		MerchantRequestID:   strings.TrimSpace(payload.MerchantRequestID),
		CheckoutRequestID:   strings.TrimSpace(payload.CheckoutRequestID),
		ResponseCode:        strings.TrimSpace(payload.ResponseCode),
		ResponseDescription: strings.TrimSpace(payload.ResponseDescription),
		CustomerMessage:     strings.TrimSpace(payload.CustomerMessage),
	}, nil
}

func (p *DarajaProvider) fetchAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(p.cfg.ConsumerKey + ":" + p.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("daraja auth failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", errors.New("daraja auth response missing access_token")
	}

	return payload.AccessToken, nil
}

func (p *DarajaProvider) postJSON(ctx context.Context, path, accessToken string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("daraja request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}

	return body, nil
}

func darajaPassword(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
