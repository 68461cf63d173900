package pipeline

import (
	"context"
	"net/netip"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadgate/leadgate/internal/domain"
)

// DefaultGeoTimeout bounds the geolocation lookup. Enrichment only: on
// timeout or error the lead ships without geo fields.
const DefaultGeoTimeout = 3500 * time.Millisecond

// Assembler runs the normalization stages over a decoded FieldMap and builds
// the canonical lead. It holds no per-request state.
type Assembler struct {
	norm       *Normalizer
	resolver   *Resolver
	geo        domain.Geolocator
	geoTimeout time.Duration
	log        zerolog.Logger
}

func NewAssembler(norm *Normalizer, geo domain.Geolocator, log zerolog.Logger) *Assembler {
	return &Assembler{
		norm:       norm,
		resolver:   NewResolver(norm),
		geo:        geo,
		geoTimeout: DefaultGeoTimeout,
		log:        log,
	}
}

// Assemble builds the canonical lead from a decoded body, the Referer header
// and the resolved client IP. The lead is complete when returned and is never
// mutated afterwards.
func (a *Assembler) Assemble(ctx context.Context, fm domain.FieldMap, referer, clientIP string) domain.Lead {
	lead := domain.Lead{Status: domain.StatusNew}
	claimed := map[string]bool{}

	pick := func(canonical string) string {
		key, v, ok := a.norm.PickEntry(fm, canonical)
		if ok {
			claimed[key] = true
		}
		return v
	}

	lead.FullName = pick(FieldFullName)
	lead.Email = pick(FieldEmail)
	lead.Phone = pick(FieldPhone)
	lead.Notes = pick(FieldNotes)
	lead.FormID = pick(FieldFormID)
	lead.FormName = pick(FieldFormName)
	lead.LandingPage = pick(FieldLandingPage)

	attrib := a.resolver.Resolve(fm, referer)
	for _, field := range AttributionFields {
		if key, _, ok := a.norm.PickEntry(fm, field); ok {
			claimed[key] = true
		}
	}
	lead.UTMSource = attrib["utm_source"]
	lead.UTMMedium = attrib["utm_medium"]
	lead.UTMCampaign = attrib["utm_campaign"]
	lead.UTMTerm = attrib["utm_term"]
	lead.UTMContent = attrib["utm_content"]
	lead.Keyword = attrib["keyword"]
	lead.GCLID = attrib["gclid"]
	lead.FBCLID = attrib["fbclid"]
	lead.TTCLID = attrib["ttclid"]
	lead.WBRAID = attrib["wbraid"]
	lead.GBRAID = attrib["gbraid"]
	lead.Platform = attrib["platform"]
	lead.CampaignID = attrib["campaign_id"]
	lead.AdgroupID = attrib["adgroup_id"]
	lead.AdID = attrib["ad_id"]
	lead.CreativeID = attrib["creative_id"]
	lead.Placement = attrib["placement"]
	lead.Device = attrib["device"]
	lead.ClientUID = attrib["client_uid"]

	// Shape heuristic only runs over keys no named match claimed, and only
	// for the core fields still missing.
	if lead.Email == "" || lead.Phone == "" || lead.FullName == "" {
		guess := a.norm.ClassifyUnclaimed(fm, claimed)
		if lead.Email == "" {
			lead.Email = guess.Email
		}
		if lead.Phone == "" {
			lead.Phone = guess.Phone
		}
		if lead.FullName == "" {
			lead.FullName = guess.FullName
		}
	}

	lead.Referrer = strings.TrimSpace(referer)
	lead.IP = strings.TrimSpace(clientIP)

	a.enrichGeo(ctx, &lead)

	// PII-minimal diagnostics: raw key names and which canonical fields
	// resolved, never the values.
	a.log.Info().
		Strs("received_keys", sortedKeys(fm)).
		Strs("resolved_fields", resolvedColumns(lead)).
		Msg("lead assembled")

	return lead
}

// enrichGeo merges geolocation for public client IPs. Private, loopback and
// otherwise non-routable addresses are never looked up.
func (a *Assembler) enrichGeo(ctx context.Context, lead *domain.Lead) {
	if a.geo == nil || lead.IP == "" || !PublicIP(lead.IP) {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, a.geoTimeout)
	defer cancel()

	loc, err := a.geo.Lookup(ctx, lead.IP)
	if err != nil || loc == nil {
		a.log.Debug().Err(err).Str("ip", lead.IP).Msg("geo lookup skipped")
		return
	}
	lead.GeoCountry = loc.Country
	lead.GeoRegion = loc.Region
	lead.GeoCity = loc.City
	lat, lon := loc.Lat, loc.Lon
	lead.GeoLat = &lat
	lead.GeoLon = &lon
	lead.GeoText = joinNonEmpty(", ", loc.City, loc.Region, loc.Country)
}

// PublicIP reports whether ip parses as a routable unicast address worth a
// geolocation lookup.
func PublicIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified() {
		return false
	}
	return true
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func resolvedColumns(lead domain.Lead) []string {
	row := lead.Row()
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
