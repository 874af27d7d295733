package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// QualysClient fetches hosts via Qualys's skip/limit endpoint.
type QualysClient struct {
	pager *SkipLimitPager
	sess  *session
}

// NewQualysClient builds a Qualys client with its own HTTP session, valid
// for the client's lifetime.
func NewQualysClient(http HTTPConfig, cfg PagerConfig) *QualysClient {
	c := &QualysClient{sess: newSession(http, "/api/qualys/hosts/get")}
	c.pager = NewSkipLimitPager("Qualys", c, cfg)
	return c
}

func (c *QualysClient) Name() string { return "Qualys" }

func (c *QualysClient) Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error) {
	return c.pager.Fetch(ctx)
}

// FetchPage implements SkipLimitPageFetcher.
func (c *QualysClient) FetchPage(ctx context.Context, skip, limit int) ([]docnode.Node, error) {
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	body, _, err := c.sess.postJSON(ctx, q)
	if err != nil {
		return nil, err
	}
	return body.List(), nil
}
