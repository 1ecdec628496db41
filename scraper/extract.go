package scraper

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/birdwatch-dev/birdwatch/models"
)

// minBodyRunes is the shortest trimmed text accepted as a post body.
const minBodyRunes = 3

var (
	statusPath = regexp.MustCompile(`/status/(\d+)`)
	handleOnly = regexp.MustCompile(`^@[A-Za-z0-9_]{1,15}$`)
)

// ExtractPosts parses the rendered HTML snapshot and returns up to
// maxPosts records in timestamp-descending order. Candidates that cannot
// produce an id, a timestamp, or any content degrade gracefully: they
// are skipped, never fatal.
func ExtractPosts(pageHTML, handle string, maxPosts int, now time.Time) []models.Post {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		slog.Warn("post extraction could not parse snapshot", "error", err)
		return nil
	}

	var candidates *goquery.Selection
	for _, strategy := range containerStrategies {
		if found := doc.FindMatcher(strategy.sel); found.Length() > 0 {
			slog.Debug("post containers located",
				"strategy", strategy.name, "count", found.Length())
			candidates = found
			break
		}
	}
	if candidates == nil {
		return nil
	}

	posts := make([]models.Post, 0, maxPosts)
	candidates.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(posts) >= maxPosts {
			return false
		}
		if post, ok := extractPost(sel, handle, i, now); ok {
			posts = append(posts, post)
		}
		return true
	})

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	return posts
}

// extractPost pulls one record out of a candidate container. position is
// the candidate's 0-based order of appearance in the DOM.
func extractPost(sel *goquery.Selection, handle string, position int, now time.Time) (models.Post, bool) {
	if isPromoted(sel) {
		return models.Post{}, false
	}
	if position < pinnedScanLimit && isPinned(sel) {
		return models.Post{}, false
	}

	text := extractText(sel)
	hasImage := sel.FindMatcher(imageMarker).Length() > 0
	if text == "" && !hasImage {
		return models.Post{}, false
	}

	id, link, ok := extractStatusLink(sel, handle)
	if !ok {
		return models.Post{}, false
	}

	timestamp, relative, ok := extractTimestamp(sel, now)
	if !ok {
		return models.Post{}, false
	}

	return models.Post{
		ID:           id,
		Handle:       handle,
		DisplayName:  extractDisplayName(sel, handle),
		Text:         text,
		Link:         link,
		Timestamp:    timestamp,
		RelativeTime: relative,
		Replies:      metricValue(sel, metricSelectors["replies"]),
		Reposts:      metricValue(sel, metricSelectors["reposts"]),
		Likes:        metricValue(sel, metricSelectors["likes"]),
		Views:        metricValue(sel, viewsAnchor),
		ExtractedAt:  now,
		Position:     position,
	}, true
}

func isPromoted(sel *goquery.Selection) bool {
	if sel.FindMatcher(promotedMarker).Length() > 0 {
		return true
	}
	text := sel.Text()
	return strings.Contains(text, "Promoted") || strings.Contains(text, "\nAd\n")
}

func isPinned(sel *goquery.Selection) bool {
	for _, marker := range pinnedMarkers {
		found := sel.FindMatcher(marker)
		if found.Length() == 0 {
			continue
		}
		label := strings.ToLower(found.Text())
		if label == "" {
			if v, ok := found.Attr("aria-label"); ok {
				label = strings.ToLower(v)
			}
		}
		if strings.Contains(label, "pinned") || label == "" {
			return true
		}
	}
	return false
}

// extractText takes the first strategy match whose trimmed text is long
// enough and does not look like a handle or a bare relative-time label.
func extractText(sel *goquery.Selection) string {
	for _, strategy := range textStrategies {
		text := ""
		sel.FindMatcher(strategy).EachWithBreak(func(_ int, node *goquery.Selection) bool {
			t := strings.TrimSpace(node.Text())
			if utf8.RuneCountInString(t) < minBodyRunes {
				return true
			}
			if handleOnly.MatchString(t) || IsRelativeTimeLabel(t) {
				return true
			}
			text = t
			return false
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// extractStatusLink finds the permalink anchor and the numeric status id.
func extractStatusLink(sel *goquery.Selection, handle string) (id, link string, ok bool) {
	sel.FindMatcher(statusAnchor).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, exists := a.Attr("href")
		if !exists {
			return true
		}
		m := statusPath.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		id = m[1]
		link = fmt.Sprintf("https://x.com/%s/status/%s", handle, id)
		ok = true
		return false
	})
	return id, link, ok
}

// extractTimestamp prefers the absolute datetime attribute and falls back
// to deriving an instant from the rendered relative-time label.
func extractTimestamp(sel *goquery.Selection, now time.Time) (time.Time, string, bool) {
	node := sel.FindMatcher(timeElement).First()
	if node.Length() == 0 {
		return time.Time{}, "", false
	}

	if dt, exists := node.Attr("datetime"); exists {
		if ts, err := time.Parse(time.RFC3339, dt); err == nil {
			return ts, "", true
		}
	}

	label := strings.TrimSpace(node.Text())
	if ts, ok := ParseRelativeTime(label, now); ok {
		return ts, label, true
	}
	return time.Time{}, "", false
}

func extractDisplayName(sel *goquery.Selection, handle string) string {
	for _, strategy := range displayNameStrategies {
		name := ""
		sel.FindMatcher(strategy).EachWithBreak(func(_ int, node *goquery.Selection) bool {
			t := strings.TrimSpace(node.Text())
			if t == "" || handleOnly.MatchString(t) || IsRelativeTimeLabel(t) {
				return true
			}
			name = t
			return false
		})
		if name != "" {
			return name
		}
	}
	return handle
}

// metricValue reads a labeled engagement control, preferring rendered
// text over the aria-label.
func metricValue(sel *goquery.Selection, matcher goquery.Matcher) int {
	node := sel.FindMatcher(matcher).First()
	if node.Length() == 0 {
		return 0
	}
	if v := ParseMetric(node.Text()); v > 0 {
		return v
	}
	if label, ok := node.Attr("aria-label"); ok {
		return ParseMetric(label)
	}
	return 0
}

// FilterFresh drops records older than the freshness window (measured
// back from now) and truncates the remainder to maxPosts. Input order is
// preserved.
func FilterFresh(posts []models.Post, window time.Duration, now time.Time, maxPosts int) []models.Post {
	cutoff := now.Add(-window)
	fresh := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Timestamp.Before(cutoff) {
			continue
		}
		fresh = append(fresh, p)
		if len(fresh) == maxPosts {
			break
		}
	}
	return fresh
}
