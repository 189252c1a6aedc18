package strapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"storefront-api/internal/domain"
)

// MapProduct converts one Strapi record into a product. Both the nested
// v4 shape ({id, attributes:{...}}) and the flat v5 shape are accepted.
func MapProduct(raw map[string]interface{}, baseURL string) (*domain.Product, error) {
	rec := flatten(raw)

	name := firstString(rec, "name", "title")
	if name == "" {
		return nil, fmt.Errorf("record %v has no name", rec["id"])
	}

	slug := firstString(rec, "slug")
	if slug == "" {
		slug = domain.Slugify(name)
	}

	price, ok := toFloat(first(rec, "price", "amount"))
	if !ok || price < 0 {
		return nil, fmt.Errorf("record %q has no valid price", slug)
	}

	stock, _ := toFloat(first(rec, "stock", "inventory", "quantity"))

	return &domain.Product{
		Name:        name,
		Slug:        slug,
		Price:       price,
		Description: RichText(first(rec, "description", "details")),
		Images:      MediaURLs(first(rec, "images", "image", "gallery", "media"), baseURL),
		Category:    relationName(first(rec, "category")),
		Sizes:       stringList(first(rec, "sizes")),
		Colors:      stringList(first(rec, "colors", "colours")),
		Stock:       int(stock),
		IsActive:    toBool(first(rec, "isActive", "active"), true),
		StrapiID:    toID(rec["id"]),
	}, nil
}

// MapFeatured converts one Strapi record into a featured item.
func MapFeatured(raw map[string]interface{}, baseURL string) (*domain.Featured, error) {
	rec := flatten(raw)

	images := MediaURLs(first(rec, "images", "image", "media", "gallery"), baseURL)
	strapiID := toID(rec["id"])
	if len(images) == 0 && strapiID == nil {
		return nil, fmt.Errorf("featured record has neither id nor images")
	}

	order, _ := toFloat(first(rec, "order", "sortOrder", "position"))

	item := &domain.Featured{
		Title:     firstString(rec, "title", "name"),
		Images:    images,
		Link:      firstString(rec, "link", "url", "href"),
		Active:    toBool(first(rec, "active", "isActive"), true),
		SortOrder: int(order),
		StrapiID:  strapiID,
	}
	item.Normalize()
	return item, nil
}

// flatten lifts v4 "attributes" onto the top level next to id.
func flatten(raw map[string]interface{}) map[string]interface{} {
	attrs, ok := raw["attributes"].(map[string]interface{})
	if !ok {
		return raw
	}
	out := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if id, ok := raw["id"]; ok {
		out["id"] = id
	}
	return out
}

func first(rec map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// MediaURLs extracts image URLs from any of the media shapes Strapi emits:
// a plain string, a list, {url}, {data:{attributes:{url}}} or {data:[...]}.
// Relative URLs are resolved against baseURL.
func MediaURLs(v interface{}, baseURL string) []string {
	urls := []string{}
	var walk func(interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				urls = append(urls, absoluteURL(s, baseURL))
			}
		case []interface{}:
			for _, e := range t {
				walk(e)
			}
		case map[string]interface{}:
			if u, ok := t["url"].(string); ok && u != "" {
				walk(u)
				return
			}
			if data, ok := t["data"]; ok {
				walk(data)
				return
			}
			if attrs, ok := t["attributes"]; ok {
				walk(attrs)
			}
		}
	}
	walk(v)
	return urls
}

func absoluteURL(u, baseURL string) string {
	if strings.HasPrefix(u, "/") && baseURL != "" {
		return strings.TrimRight(baseURL, "/") + u
	}
	return u
}

// RichText renders a description that is either a plain string or a list of
// rich-text blocks into plain text, one paragraph per block.
func RichText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		paragraphs := make([]string, 0, len(t))
		for _, block := range t {
			if text := strings.TrimSpace(blockText(block)); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
		return strings.Join(paragraphs, "\n\n")
	case map[string]interface{}:
		return strings.TrimSpace(blockText(t))
	}
	return ""
}

func blockText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["text"].(string); ok {
			return s
		}
		if children, ok := t["children"].([]interface{}); ok {
			var sb strings.Builder
			for _, c := range children {
				sb.WriteString(blockText(c))
			}
			return sb.String()
		}
	case []interface{}:
		var sb strings.Builder
		for _, c := range t {
			sb.WriteString(blockText(c))
		}
		return sb.String()
	}
	return ""
}

// relationName reads a category given as a string, {name}, or a v4 relation.
func relationName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		if data, ok := t["data"]; ok {
			return relationName(data)
		}
		rec := flatten(t)
		return firstString(rec, "name", "slug", "title")
	}
	return ""
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		var out []string
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		var out []string
		for _, e := range t {
			switch x := e.(type) {
			case string:
				if x = strings.TrimSpace(x); x != "" {
					out = append(out, x)
				}
			case map[string]interface{}:
				if s := firstString(flatten(x), "name", "value", "label"); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func toID(v interface{}) *int64 {
	f, ok := toFloat(v)
	if !ok || f <= 0 {
		return nil
	}
	id := int64(f)
	return &id
}

func toBool(v interface{}, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return def
}
