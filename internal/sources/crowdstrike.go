package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Ap3pp3rs94/hostfusion/internal/docnode"
)

// CrowdStrikeClient fetches hosts via CrowdStrike's skip/limit endpoint.
// Identical strategy to Qualys; only the endpoint differs.
type CrowdStrikeClient struct {
	pager *SkipLimitPager
	sess  *session
}

func NewCrowdStrikeClient(http HTTPConfig, cfg PagerConfig) *CrowdStrikeClient {
	c := &CrowdStrikeClient{sess: newSession(http, "/api/crowdstrike/hosts/get")}
	c.pager = NewSkipLimitPager("CrowdStrike", c, cfg)
	return c
}

func (c *CrowdStrikeClient) Name() string { return "CrowdStrike" }

func (c *CrowdStrikeClient) Fetch(ctx context.Context) (<-chan docnode.Node, <-chan error) {
	return c.pager.Fetch(ctx)
}

func (c *CrowdStrikeClient) FetchPage(ctx context.Context, skip, limit int) ([]docnode.Node, error) {
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	body, _, err := c.sess.postJSON(ctx, q)
	if err != nil {
		return nil, err
	}
	return body.List(), nil
}
