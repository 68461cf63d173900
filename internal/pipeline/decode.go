package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/leadgate/leadgate/internal/domain"
)

// Container keys whose children are hoisted straight to the top level instead
// of being path-flattened. Elementor webhooks and several form plugins wrap
// the actual fields under one of these.
var containerKeys = map[string]bool{
	"fields":      true,
	"form_fields": true,
}

// maxValueBytes caps a single multipart field so a file body pasted into a
// text part cannot balloon the map.
const maxValueBytes = 64 << 10

// Decode reduces a raw request body to a flat FieldMap, dispatching on the
// declared content type. This is the single place where the swallow policy
// lives: every decode failure yields an empty map, never an error — the
// pipeline must not fail a request because the body was unparseable.
func Decode(contentType string, body []byte) domain.FieldMap {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	var (
		fm     domain.FieldMap
		decErr error
	)
	switch {
	case strings.Contains(mediaType, "application/json"):
		fm, decErr = decodeJSON(body)
	case strings.Contains(mediaType, "application/x-www-form-urlencoded"):
		fm, decErr = decodeForm(body)
	case strings.Contains(mediaType, "multipart/form-data"):
		fm, decErr = decodeMultipart(body, params["boundary"])
	default:
		// Unknown or missing content type: many form plugins send JSON
		// without declaring it.
		fm, decErr = decodeJSON(body)
	}
	if decErr != nil || fm == nil {
		return domain.FieldMap{}
	}
	return fm
}

func decodeJSON(body []byte) (domain.FieldMap, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.FieldMap{}, nil
	}
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, err
	}

	fm := domain.FieldMap{}
	for k, v := range root {
		if containerKeys[strings.ToLower(k)] {
			if hoistContainer(fm, v) {
				continue
			}
		}
		flattenValue(fm, k, v)
	}
	return fm, nil
}

// hoistContainer merges a recognized field container into the top level.
// Supported shapes:
//
//	{"email": "a@b"}                                plain sub-object
//	{"email": {"id":"email","value":"a@b"}}         Elementor keyed records
//	[{"id":"email","value":"a@b"}, ...]             record array
//
// Returns false when the value has none of these shapes, in which case the
// caller falls back to path flattening.
func hoistContainer(fm domain.FieldMap, v any) bool {
	switch c := v.(type) {
	case map[string]any:
		for id, fv := range c {
			if rec, ok := fv.(map[string]any); ok {
				if val, ok := rec["value"]; ok {
					setScalar(fm, id, val)
					continue
				}
			}
			flattenValue(fm, id, fv)
		}
		return true
	case []any:
		if len(c) == 0 {
			return false
		}
		// Validate the whole array before writing anything: a single item
		// without an id rejects the array, and the caller path-flattens the
		// container instead. Writing eagerly would leave half-hoisted keys
		// next to the flattened ones.
		ids := make([]string, len(c))
		for i, item := range c {
			rec, ok := item.(map[string]any)
			if !ok {
				return false
			}
			id, _ := rec["id"].(string)
			if id == "" {
				id, _ = rec["name"].(string)
			}
			if id == "" {
				return false
			}
			ids[i] = id
		}
		for i, item := range c {
			rec := item.(map[string]any)
			setScalar(fm, ids[i], rec["value"])
		}
		return true
	default:
		return false
	}
}

// flattenValue writes v under key, recursing into nested objects and arrays
// with bracket paths: parent[child], parent[0].
func flattenValue(fm domain.FieldMap, key string, v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range t {
			flattenValue(fm, key+"["+k+"]", sub)
		}
	case []any:
		for i, sub := range t {
			flattenValue(fm, key+"["+strconv.Itoa(i)+"]", sub)
		}
	default:
		setScalar(fm, key, v)
	}
}

// setScalar stringifies a leaf JSON value. null is omitted entirely so that
// absent and null are indistinguishable downstream.
func setScalar(fm domain.FieldMap, key string, v any) {
	switch t := v.(type) {
	case nil:
		return
	case string:
		fm[key] = t
	case bool:
		fm[key] = strconv.FormatBool(t)
	case float64:
		fm[key] = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		fm[key] = t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return
		}
		fm[key] = string(b)
	}
}

func decodeForm(body []byte) (domain.FieldMap, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	fm := domain.FieldMap{}
	for k, vs := range values {
		if len(vs) > 0 {
			fm[k] = vs[0]
		}
	}
	return fm, nil
}

func decodeMultipart(body []byte, boundary string) (domain.FieldMap, error) {
	if boundary == "" {
		return nil, errors.New("multipart: no boundary")
	}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	form, err := mr.ReadForm(int64(len(body)) + 1)
	if err != nil {
		return nil, err
	}
	defer form.RemoveAll()

	fm := domain.FieldMap{}
	for k, vs := range form.Value {
		if len(vs) > 0 {
			v := vs[0]
			if len(v) > maxValueBytes {
				v = v[:maxValueBytes]
			}
			fm[k] = v
		}
	}
	// File fields contribute their filename, never their content.
	for k, fhs := range form.File {
		if len(fhs) > 0 {
			fm[k] = fhs[0].Filename
		}
	}
	return fm, nil
}
