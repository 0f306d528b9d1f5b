package links

import (
	"fmt"
	"net/url"
	"strings"
)

// Category describes where a link points relative to the course being
// validated.
type Category int

const (
	// Skip links carry no checkable target: empty, fragment-only,
	// mailto:, javascript:.
	Skip Category = iota
	// Internal links point into this course; the normalized value is
	// the path with query and fragment stripped, resolvable against
	// the course's resource map.
	Internal
	// InternalOther links point into a different course on the same
	// site. They cannot be verified and are always reported.
	InternalOther
	// External links point at a foreign origin and are checked over
	// the network.
	External
)

func (c Category) String() string {
	switch c {
	case Skip:
		return "skip"
	case Internal:
		return "internal"
	case InternalOther:
		return "internal-other"
	case External:
		return "external"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Classify places raw under one of the four categories for the course
// at /courses/{courseID} on siteOrigin (scheme://host). The returned
// value is the normalized course path for Internal and InternalOther,
// and the raw URL for External. Skip returns an empty value.
func Classify(raw, siteOrigin string, courseID int64) (Category, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Skip, ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
		return Skip, ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		// Unparseable targets go to the external checker, which will
		// report them as unreachable with the parse failure.
		return External, trimmed
	}

	if u.Scheme != "" || u.Host != "" {
		site, siteErr := url.Parse(siteOrigin)
		if siteErr != nil || u.Host != site.Host {
			return External, trimmed
		}
		// Same-site absolute URL: fall through to path inspection.
	}

	// Relative URLs and same-site absolutes resolve by path. url.Parse
	// already splits off query and fragment, so u.Path is the
	// normalized value.
	path := u.Path
	coursePrefix := fmt.Sprintf("/courses/%d", courseID)
	switch {
	case path == coursePrefix || strings.HasPrefix(path, coursePrefix+"/"):
		return Internal, path
	case strings.HasPrefix(path, "/courses/"):
		return InternalOther, path
	}
	// Site paths outside any course (profile, files area) and bare
	// relative paths have nothing to resolve against.
	return Skip, ""
}
