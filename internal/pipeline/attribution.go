package pipeline

import (
	"net/url"
	"strings"

	"github.com/leadgate/leadgate/internal/domain"
)

// AttributionFields are the canonical marketing fields the resolver fills.
// Each resolves independently through the same priority chain.
var AttributionFields = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"keyword",
	"gclid", "fbclid", "ttclid", "wbraid", "gbraid",
	"platform", "campaign_id", "adgroup_id", "ad_id", "creative_id",
	"placement", "device", "client_uid",
}

// Resolver fills attribution fields from, in priority order: explicit body
// fields, the query string of the landing-page URL found in the body, and the
// HTTP Referer. Values the client forwarded from its local attribution cache
// arrive already merged into the body, so they ride the first level.
type Resolver struct {
	n *Normalizer
}

func NewResolver(n *Normalizer) *Resolver {
	return &Resolver{n: n}
}

// Resolve returns the final value for every attribution field. Once a field
// resolves at an earlier level with a non-empty value, later levels never
// overwrite it. Unparseable URLs contribute nothing.
func (r *Resolver) Resolve(fm domain.FieldMap, referer string) map[string]string {
	out := make(map[string]string, len(AttributionFields))

	pageQuery := queryValues(r.n.Pick(fm, FieldLandingPage))
	refQuery := queryValues(referer)

	for _, field := range AttributionFields {
		if v := r.n.Pick(fm, field); v != "" {
			out[field] = v
			continue
		}
		if v := strings.TrimSpace(pageQuery.Get(field)); v != "" {
			out[field] = v
			continue
		}
		if v := strings.TrimSpace(refQuery.Get(field)); v != "" {
			out[field] = v
		}
	}

	// keyword and utm_term are mutually substitutable spellings of the same
	// concept; each fills the other when only one was sent.
	if out["utm_term"] == "" {
		out["utm_term"] = out["keyword"]
	}
	if out["keyword"] == "" {
		out["keyword"] = out["utm_term"]
	}
	// With neither present, ad-network click ids are sometimes the only term
	// signal left. They populate utm_term only, never keyword.
	if out["utm_term"] == "" {
		for _, alt := range []string{"gclid", "wbraid", "gbraid"} {
			if out[alt] != "" {
				out["utm_term"] = out[alt]
				break
			}
		}
	}

	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	return out
}

// queryValues parses the query string of a URL, tolerating junk: a URL that
// does not parse simply has no values.
func queryValues(raw string) url.Values {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return url.Values{}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return url.Values{}
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return q
}
