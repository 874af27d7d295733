package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// HTTPConfig configures the shared vendor transport: base URL, bearer-style
// token header, and request timeout. One HTTPConfig backs one vendor
// client's *http.Client for the client's lifetime (§5: "the HTTP session
// per source is owned by that source client").
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func (c HTTPConfig) timeoutOrDefault() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// session wraps one vendor's *http.Client plus its endpoint, matching the
// base client's single shared requests.Session per vendor.
type session struct {
	http     *http.Client
	baseURL  string
	token    string
	endpoint string
}

func newSession(cfg HTTPConfig, endpoint string) *session {
	return &session{
		http: &http.Client{
			Timeout: cfg.timeoutOrDefault(),
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		endpoint: endpoint,
	}
}

// postJSON issues the vendor POST <base>/<endpoint>?<query> request
// (original_source/src/api_clients/base_client.py's `_fetch_page`:
// accept/token/Content-Type headers, empty JSON body, 30s timeout) and
// returns the decoded JSON body as a docnode.Node plus the raw response
// text for sentinel detection on error paths.
func (s *session) postJSON(ctx context.Context, query url.Values) (docnode.Node, string, error) {
	u := s.baseURL + s.endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	if err != nil {
		return docnode.Node{}, "", wrapTransport(err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("token", s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return docnode.Node{}, "", wrapTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return docnode.Node{}, "", wrapTransport(err)
	}
	bodyText := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isEndOfData(bodyText) {
			return docnode.Node{}, bodyText, apierrorsWrapEndOfData(bodyText)
		}
		if isInvalidCursor(bodyText) {
			return docnode.Node{}, bodyText, apierrorsWrapInvalidCursor(bodyText)
		}
		return docnode.Node{}, bodyText, wrapTransport(fmt.Errorf("vendor returned status %d: %s", resp.StatusCode, bodyText))
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return docnode.Node{}, bodyText, wrapTransport(fmt.Errorf("decoding vendor response: %w", err))
	}
	body := docnode.Of(v)

	// Vendor bodies may be 2xx with an embedded {"error": [...]} list
	// describing a constraint violation (too_big / "Number must be less
	// than or equal to"); base_client.py checks this after raise_for_status
	// succeeds, before treating the response as a page of hosts.
	if errList := body.Get("error"); !errList.IsAbsent() {
		for _, e := range errList.List() {
			ve := vendorError{
				Code:    e.Get("code").StringOr(""),
				Message: e.Get("message").StringOr(""),
			}
			if isConstraintViolation(ve) {
				return docnode.Node{}, bodyText, wrapConstraint(fmt.Errorf("code=%s message=%s", ve.Code, ve.Message))
			}
		}
		return docnode.Node{}, bodyText, wrapTransport(fmt.Errorf("vendor returned a general error: %s", bodyText))
	}

	return body, bodyText, nil
}
