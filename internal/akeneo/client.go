package akeneo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"measurement-migrator/internal/logger"
	"measurement-migrator/internal/measure"
)

const (
	TokenPath               = "/api/oauth/v1/token"
	MeasurementFamiliesPath = "/api/rest/v1/measurement-families"

	DefaultBatchSize = 100
	DefaultTimeout   = 60 * time.Second

	// maxErrorBody bounds how much of an error reply is read.
	maxErrorBody = 64 << 10
)

// Config holds the connection settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	BatchSize    int
	Timeout      time.Duration
}

// Validate reports missing settings.
func (c Config) Validate() error {
	var missing []string

	for name, v := range map[string]string{
		"base URL":      c.BaseURL,
		"client id":     c.ClientID,
		"client secret": c.ClientSecret,
		"username":      c.Username,
		"password":      c.Password,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.Errorf("missing API settings: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Client talks to the PIM REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	batchSize int
	log       logger.Logger
}

// New returns a client authenticating with the OAuth2 password grant. The
// token is requested on the first API call and renewed when it expires.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid API base URL %q", cfg.BaseURL)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("invalid API base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if log == nil {
		log = logger.Nop()
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  base.String() + TokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	// The token endpoint is called with the same timeout as the API.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	ts := oauth2.ReuseTokenSource(nil, &passwordTokenSource{
		ctx:      ctx,
		cfg:      oauthCfg,
		username: cfg.Username,
		password: cfg.Password,
		log:      log,
	})

	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:   base,
		http:      httpClient,
		batchSize: cfg.BatchSize,
		log:       log,
	}, nil
}

// UpsertMeasurementFamilies creates or replaces families with the bulk
// PATCH endpoint. Families are sent in sequential batches; the results keep
// submission order. A non-2xx reply aborts with an *APIError.
func (c *Client) UpsertMeasurementFamilies(ctx context.Context, families []measure.Family) ([]measure.Result, error) {
	results := make([]measure.Result, 0, len(families))

	for start := 0; start < len(families); start += c.batchSize {
		end := min(start+c.batchSize, len(families))
		batch := families[start:end]

		c.log.Info("upserting measurement families",
			logger.Int("from", start),
			logger.Int("count", len(batch)),
			logger.Int("total", len(families)),
		)

		res, err := c.upsertBatch(ctx, batch)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upsert measurement families %d-%d", start+1, end)
		}

		if len(res) != len(batch) {
			c.log.Warn("upsert reply size differs from batch size",
				logger.Int("sent", len(batch)),
				logger.Int("received", len(res)),
			)
		}

		results = append(results, res...)
	}

	return results, nil
}

func (c *Client) upsertBatch(ctx context.Context, batch []measure.Family) ([]measure.Result, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode measurement families")
	}

	var res []measure.Result

	err = c.do(ctx, http.MethodPatch, MeasurementFamiliesPath, body, &res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// ListMeasurementFamilyCodes returns the codes of the families that already
// exist in the PIM.
func (c *Client) ListMeasurementFamilyCodes(ctx context.Context) ([]string, error) {
	var existing []struct {
		Code string `json:"code"`
	}

	err := c.do(ctx, http.MethodGet, MeasurementFamiliesPath, nil, &existing)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list measurement families")
	}

	codes := make([]string, 0, len(existing))
	for _, f := range existing {
		codes = append(codes, f.Code)
	}

	return codes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return errors.Wrapf(err, "failed to decode %s %s reply", method, path)
	}

	return nil
}

// APIError is a non-2xx reply to a whole request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API responded with status %d", e.StatusCode)
	}

	return fmt.Sprintf("API responded with status %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}

	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}

// passwordTokenSource performs the password grant on every call. It is
// wrapped in oauth2.ReuseTokenSource so that only happens on expiry.
type passwordTokenSource struct {
	ctx      context.Context
	cfg      *oauth2.Config
	username string
	password string
	log      logger.Logger
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	s.log.Debug("requesting API token", logger.String("username", s.username))

	tok, err := s.cfg.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to authenticate against the API")
	}

	return tok, nil
}
