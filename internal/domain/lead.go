package domain

import (
	"errors"
	"strings"
)

// StatusNew is the only status a lead ever carries at creation time.
// Later stages of the sales flow update it directly in storage.
const StatusNew = "new"

var (
	// ErrNotConfigured means the storage collaborator credentials are missing.
	// Surfaced as a 500 "server not configured", never as a crash.
	ErrNotConfigured = errors.New("server not configured")

	// ErrGeoUnavailable covers every geolocation failure mode; callers absorb it.
	ErrGeoUnavailable = errors.New("geolocation unavailable")
)

// ValidationError is returned when a submission carries no recognizable lead
// data. Keys lists the raw field names that were received, to aid debugging
// without leaking field content.
type ValidationError struct {
	Keys []string
}

func (e *ValidationError) Error() string {
	if len(e.Keys) == 0 {
		return "empty payload"
	}
	return "no recognizable lead fields in payload (keys: " + strings.Join(e.Keys, ", ") + ")"
}

// FieldMap is the flat key->value form every request body is reduced to.
// All values are strings; nothing nested survives past decoding.
type FieldMap map[string]string

// Keys returns the raw key names present in the map, unordered.
func (fm FieldMap) Keys() []string {
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	return keys
}

// Lead is the canonical record persisted for every captured submission.
// Every field except Status is optional; empty fields never reach storage.
type Lead struct {
	Status string

	FullName    string
	Email       string
	Phone       string
	Notes       string
	FormID      string
	FormName    string
	LandingPage string
	Referrer    string
	IP          string

	GeoCountry string
	GeoRegion  string
	GeoCity    string
	GeoText    string
	GeoLat     *float64
	GeoLon     *float64

	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	UTMTerm     string
	UTMContent  string
	Keyword     string
	GCLID       string
	FBCLID      string
	TTCLID      string
	WBRAID      string
	GBRAID      string

	Platform   string
	CampaignID string
	AdgroupID  string
	AdID       string
	CreativeID string
	Placement  string
	Device     string
	ClientUID  string
}

// Row flattens the lead into the column map handed to the storage
// collaborator. A column is present only when its value is non-empty after
// trimming; empty string and absent are equivalent.
func (l Lead) Row() map[string]any {
	row := make(map[string]any, 32)
	put := func(col, v string) {
		if s := strings.TrimSpace(v); s != "" {
			row[col] = s
		}
	}

	put("status", l.Status)
	put("full_name", l.FullName)
	put("email", l.Email)
	put("phone", l.Phone)
	put("notes", l.Notes)
	put("form_id", l.FormID)
	put("form_name", l.FormName)
	put("landing_page", l.LandingPage)
	put("referrer", l.Referrer)
	put("ip", l.IP)

	put("geo_country", l.GeoCountry)
	put("geo_region", l.GeoRegion)
	put("geo_city", l.GeoCity)
	put("geo_text", l.GeoText)
	if l.GeoLat != nil {
		row["geo_lat"] = *l.GeoLat
	}
	if l.GeoLon != nil {
		row["geo_lon"] = *l.GeoLon
	}

	put("utm_source", l.UTMSource)
	put("utm_medium", l.UTMMedium)
	put("utm_campaign", l.UTMCampaign)
	put("utm_term", l.UTMTerm)
	put("utm_content", l.UTMContent)
	put("keyword", l.Keyword)
	put("gclid", l.GCLID)
	put("fbclid", l.FBCLID)
	put("ttclid", l.TTCLID)
	put("wbraid", l.WBRAID)
	put("gbraid", l.GBRAID)

	put("platform", l.Platform)
	put("campaign_id", l.CampaignID)
	put("adgroup_id", l.AdgroupID)
	put("ad_id", l.AdID)
	put("creative_id", l.CreativeID)
	put("placement", l.Placement)
	put("device", l.Device)
	put("client_uid", l.ClientUID)

	return row
}

// Empty reports whether the lead carries nothing beyond its status.
func (l Lead) Empty() bool {
	row := l.Row()
	delete(row, "status")
	return len(row) == 0
}
