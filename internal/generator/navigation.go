package generator

import (
	"net/url"
	"strings"

	"selenex/internal/models"
)

// checkNavigation emits a wait block when the event's URL path differs from
// the previous event's. Events without a URL neither trigger nor move the cursor.
func (r *run) checkNavigation(index int, event models.Event) error {
	current := event.URL()
	if current == "" {
		return nil
	}
	defer func() { r.lastURL = current }()

	if urlPath(current) == urlPath(r.lastURL) {
		return nil
	}
	segment := pathSegment(current)
	if segment == "" {
		return nil
	}

	data := r.data()
	data.Segment = segment
	text, err := render("navigation", data)
	if err != nil {
		return err
	}
	r.emit(index, KindNavigation, text)
	return nil
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

// pathSegment returns the first component of the URL path, e.g. "checkout"
// for https://shop.example/checkout/step-2/.
func pathSegment(raw string) string {
	segment := strings.Trim(urlPath(raw), "/")
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	return segment
}
