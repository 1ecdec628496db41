// Package classifier decides whether a rendered profile page may be
// extracted from, and if not, why. Evaluation order matters: the
// categories overlap textually, so the first match wins.
package classifier

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/birdwatch-dev/birdwatch/models"
)

// Classify inspects the navigated URL and the rendered HTML against the
// ordered pattern sets and returns a Validation outcome for the target
// handle. handle is a bare handle (no @, no URL).
//
// Suspension and not-found phrases are only trusted when the URL is
// confirmed to correspond to the target; the same wording appears in
// navigation chrome and embedded cards on unrelated pages.
func Classify(finalURL, pageHTML, handle string) models.Outcome {
	lowURL := strings.ToLower(finalURL)
	lowHTML := strings.ToLower(pageHTML)
	text := strings.ToLower(VisibleText(pageHTML))
	handle = strings.ToLower(strings.TrimPrefix(handle, "@"))

	// 1. Redirect into an auth/signup flow wins regardless of content.
	for _, marker := range AuthURLMarkers {
		if strings.Contains(lowURL, marker) {
			return models.Invalid(models.ErrCodeAuthRequired,
				fmt.Sprintf("redirected to authentication flow (%s)", marker))
		}
	}

	// 2. Rate limiting.
	if phrase := matchAny(text, RateLimitPhrases); phrase != "" {
		return models.Invalid(models.ErrCodeRateLimited,
			fmt.Sprintf("rate limit wall detected (%q)", phrase))
	}

	onTarget := URLMatchesTarget(finalURL, handle)

	// 3. Suspension, only on the target's own profile URL.
	if onTarget {
		if phrase := matchAny(text, SuspendedPhrases); phrase != "" {
			return models.Invalid(models.ErrCodeSuspended,
				fmt.Sprintf("account suspended (%q)", phrase))
		}
	}

	// 4. Not found, on the target URL or a generic not-found route.
	if onTarget || isNotFoundRoute(lowURL) {
		if phrase := matchAny(text, NotFoundPhrases); phrase != "" {
			return models.Invalid(models.ErrCodeNotFound,
				fmt.Sprintf("account not found (%q)", phrase))
		}
	}

	// 5. Protected accounts render the wall on the profile URL itself,
	// so no URL gate here.
	if phrase := matchAny(text, ProtectedPhrases); phrase != "" {
		return models.Invalid(models.ErrCodeProtected,
			fmt.Sprintf("account is protected (%q)", phrase))
	}

	// 6. On the target URL but no sign the profile shell rendered.
	if onTarget && !hasProfileIndicator(lowHTML, handle) {
		return models.Invalid(models.ErrCodeProfileLoadFailed,
			"profile page loaded without any profile identity indicator")
	}

	return models.Valid()
}

// URLMatchesTarget reports whether the URL's first path segment is the
// target handle (case-insensitive).
func URLMatchesTarget(rawURL, handle string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return len(segments) > 0 && strings.EqualFold(segments[0], handle)
}

// VisibleText flattens the HTML to the text a user would see, skipping
// script, style, and noscript subtrees. Parse failures degrade to the
// raw input so phrase matching still has something to work with.
func VisibleText(pageHTML string) string {
	root, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return pageHTML
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

func matchAny(text string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p
		}
	}
	return ""
}

func isNotFoundRoute(lowURL string) bool {
	for _, route := range NotFoundRoutes {
		if strings.Contains(lowURL, route) {
			return true
		}
	}
	return false
}

func hasProfileIndicator(lowHTML, handle string) bool {
	if handle != "" && strings.Contains(lowHTML, "@"+handle) {
		return true
	}
	for _, marker := range ProfileMarkers {
		if strings.Contains(lowHTML, marker) {
			return true
		}
	}
	return false
}
