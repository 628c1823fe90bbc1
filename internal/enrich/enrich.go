package enrich

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"venturescope-engine/internal/secrets"
)

// ErrMissingName is the only hard failure: enrichment without a
// company name is a caller mistake, not a reachability problem.
var ErrMissingName = errors.New("company name missing")

// fetchTimeout bounds the homepage reachability check. A timeout is
// not an error; it selects the fallback branch.
const fetchTimeout = 5 * time.Second

// maxBodyBytes caps how much of the homepage we read. The content is
// only evidence of reachability, never analyzed.
const maxBodyBytes = 1 << 20

type Signal struct {
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}

type Source struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Result is the enrichment payload. Ephemeral: it is rendered and
// cached for the selected company only, never persisted.
type Result struct {
	Summary    string   `json:"summary"`
	WhatTheyDo []string `json:"whatTheyDo"`
	Keywords   []string `json:"keywords"`
	Signals    []Signal `json:"signals"`
	Score      int      `json:"score,omitempty"`
	Risk       string   `json:"risk,omitempty"`
	Verdict    string   `json:"verdict,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Sources    []Source `json:"sources,omitempty"`
}

type Config struct {
	UserAgent         string
	RequestsPerSecond float64
	Burst             int

	// KeyringAccount, when set, names the OS-keychain entry holding a
	// bearer token for providers that sit behind auth. Empty means
	// anonymous fetches.
	KeyringAccount string
}

// Client performs the best-effort homepage reachability check and
// builds the branch-deterministic enrichment result. This is an
// intentional mock/heuristic enrichment: the field values below are
// fixed per branch and callers depend on them.
type Client struct {
	hc        *http.Client
	limiter   *HostLimiter
	sf        singleflight.Group
	userAgent string
	account   string
	now       func() time.Time
}

func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "VentureScope/1.0 (+local)"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2
	}
	return &Client{
		hc:        &http.Client{Timeout: fetchTimeout},
		limiter:   NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
		userAgent: cfg.UserAgent,
		account:   cfg.KeyringAccount,
		now:       time.Now,
	}
}

// TargetURL derives the homepage to probe: an explicit website is
// used verbatim when it already carries an http scheme prefix,
// otherwise https:// is prepended; with no website the URL is
// synthesized from the lowercased, whitespace-stripped company name.
func TargetURL(name, website string) string {
	site := strings.TrimSpace(website)
	if site != "" {
		if strings.HasPrefix(site, "http") {
			return site
		}
		return "https://" + site
	}
	host := strings.ToLower(strings.Join(strings.Fields(name), ""))
	return "https://" + host + ".com"
}

// Enrich runs the reachability check and returns the deterministic
// result for whichever branch it lands on. Fetch failures of any kind
// (timeout, network error, non-2xx, empty body) silently select the
// fallback branch; they are never surfaced as errors.
func (c *Client) Enrich(ctx context.Context, name, website string) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, ErrMissingName
	}

	target := TargetURL(name, website)

	// Concurrent enrich calls for the same company share one probe.
	v, _, _ := c.sf.Do(name+"\x00"+target, func() (any, error) {
		return c.reachable(ctx, target), nil
	})
	live := v.(bool)

	res := buildResult(name, target, live)
	res.Timestamp = c.now().Format("2006-01-02 15:04:05")
	return res, nil
}

func (c *Client) reachable(ctx context.Context, target string) bool {
	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	if u, err := url.Parse(target); err == nil && u.Host != "" {
		if err := c.limiter.Wait(fctx, u.Host); err != nil {
			return false
		}
	}

	req, err := http.NewRequestWithContext(fctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.account != "" {
		if token, err := secrets.GetProviderToken(c.account); err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Printf("[enrich] fetch failed url=%s err=%v", target, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[enrich] non-2xx url=%s status=%s", target, resp.Status)
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		// an empty page is not evidence of anything
		return false
	}

	// The content is not analyzed; log the page title as a trace of
	// what we actually reached.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body))); err == nil {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			log.Printf("[enrich] fetched url=%s title=%q", target, title)
		}
	}
	return true
}

func buildResult(name, target string, live bool) Result {
	res := Result{
		Keywords: []string{"Live Data", "Enrichment", "AI Scout", "VC Intelligence"},
		Sources:  []Source{{Label: "Homepage", URL: target}},
	}

	if live {
		res.Summary = name + " website successfully fetched for enrichment."
		res.WhatTheyDo = []string{
			"Live website data pull attempted",
			"Real content fetched",
			"Structured enrichment generated",
		}
		res.Signals = []Signal{
			{Text: "Website reachable", Date: "Live Check"},
			{Text: "Enrichment generated server-side", Date: "System"},
		}
		res.Score = 85
		res.Risk = "Lower"
		res.Verdict = "Validated via Live Pull"
		return res
	}

	res.Summary = name + " is a fast-growing company operating in the tech space."
	res.WhatTheyDo = []string{
		"Live website data pull attempted",
		"Fallback mock used",
		"Structured enrichment generated",
	}
	res.Signals = []Signal{
		{Text: "Website fetch failed", Date: "Live Check"},
		{Text: "Enrichment generated server-side", Date: "System"},
	}
	res.Score = 70
	res.Risk = "Medium"
	res.Verdict = "Mock Fallback"
	return res
}
