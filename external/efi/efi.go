package efi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	productionBaseURL = "https://pix.api.efipay.com.br"
	sandboxBaseURL    = "https://pix-h.api.efipay.com.br"
)

type Config struct {
	ClientID     string
	ClientSecret string
	// CertPath points at a PEM bundle holding the client certificate and key
	// issued by Efí; the PIX API rejects connections without it.
	CertPath      string
	Sandbox       bool
	SkipMTLSCheck bool
}

type Client struct {
	http          *http.Client
	baseURL       string
	skipMTLSCheck bool
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := productionBaseURL
	if cfg.Sandbox {
		baseURL = sandboxBaseURL
	}

	transport := http.DefaultTransport
	if cfg.CertPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.CertPath)
		if err != nil {
			return nil, fmt.Errorf("efi: load certificate: %w", err)
		}
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		}
	}

	oauth := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/oauth/token",
		Scopes:       []string{"cob.write", "cob.read", "webhook.write", "webhook.read"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Token requests must ride the same mTLS transport as the API calls.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	})

	return &Client{
		http:          oauth.Client(ctx),
		baseURL:       baseURL,
		skipMTLSCheck: cfg.SkipMTLSCheck,
	}, nil
}

// ======================
// WIRE TYPES
// ======================

type Calendario struct {
	Expiracao int `json:"expiracao"`
}

type Valor struct {
	Original string `json:"original"`
}

type Loc struct {
	ID       int64  `json:"id"`
	Location string `json:"location,omitempty"`
}

type ChargeRequest struct {
	Calendario         Calendario `json:"calendario"`
	Valor              Valor      `json:"valor"`
	Chave              string     `json:"chave"`
	SolicitacaoPagador string     `json:"solicitacaoPagador,omitempty"`
}

type Charge struct {
	Txid       string     `json:"txid"`
	Status     string     `json:"status"`
	Calendario Calendario `json:"calendario"`
	Valor      Valor      `json:"valor"`
	Loc        Loc        `json:"loc"`
}

type QRCode struct {
	Qrcode       string `json:"qrcode"`
	ImagemQrcode string `json:"imagemQrcode"`
}

type APIError struct {
	Status  int
	Name    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("efi: %s (status %d): %s", e.Name, e.Status, e.Message)
}

// ======================
// PIX ENDPOINTS
// ======================

func (c *Client) CreateImmediateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	var charge Charge
	if err := c.do(ctx, http.MethodPost, "/v2/cob", nil, req, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

func (c *Client) GenerateQRCode(ctx context.Context, locID int64) (*QRCode, error) {
	var qr QRCode
	path := fmt.Sprintf("/v2/loc/%d/qrcode", locID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) ConfigWebhook(ctx context.Context, pixKey, webhookURL string) error {
	header := http.Header{}
	if c.skipMTLSCheck {
		// Efí validates the callback over plain TLS instead of demanding
		// a client certificate on our side.
		header.Set("x-skip-mtls-checking", "true")
	}
	body := map[string]string{"webhookUrl": webhookURL}
	return c.do(ctx, http.MethodPut, "/v2/webhook/"+pixKey, header, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("efi: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("efi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("efi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("efi: decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Name: "efi_error"}

	// Efí uses two error envelopes: {nome, mensagem} on the PIX endpoints
	// and {error, error_description} on OAuth.
	var envelope struct {
		Nome             string `json:"nome"`
		Mensagem         string `json:"mensagem"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if raw, err := io.ReadAll(resp.Body); err == nil && json.Unmarshal(raw, &envelope) == nil {
		switch {
		case envelope.Nome != "":
			apiErr.Name = envelope.Nome
			apiErr.Message = envelope.Mensagem
		case envelope.Error != "":
			apiErr.Name = envelope.Error
			apiErr.Message = envelope.ErrorDescription
		}
	}
	return apiErr
}
