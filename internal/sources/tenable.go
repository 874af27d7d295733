package sources

import (
	"context"
	"net/url"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// TenableClient fetches hosts via Tenable's opaque-cursor endpoint. The
// response shape is {"hosts": [...], "cursor": ...} rather than a bare
// array.
type TenableClient struct {
	pager *CursorPager
	sess  *session
}

func NewTenableClient(http HTTPConfig, cfg PagerConfig) *TenableClient {
	c := &TenableClient{sess: newSession(http, "/api/tenable/hosts/get")}
	c.pager = NewCursorPager("Tenable", c, cfg)
	return c
}

func (c *TenableClient) Name() string { return "Tenable" }

func (c *TenableClient) Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error) {
	return c.pager.Fetch(ctx)
}

// FetchPage implements CursorPageFetcher.
func (c *TenableClient) FetchPage(ctx context.Context, cursor string) ([]docnode.Node, string, error) {
	q := url.Values{"cursor": {cursor}}
	body, _, err := c.sess.postJSON(ctx, q)
	if err != nil {
		return nil, "", err
	}
	hosts := body.Get("hosts").List()
	next := body.Get("cursor").StringOr("")
	return hosts, next, nil
}
