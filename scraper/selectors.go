package scraper

import "github.com/andybalholm/cascadia"

// The DOM heuristics below are versioned configuration data: the
// timeline's markup shifts between frontend deployments, so every
// strategy list is ordered from most specific to most generic and the
// extraction code only ever takes the first that yields anything.
// Selectors are compiled at init so a bad pattern fails fast.

// containerStrategy locates candidate post containers.
type containerStrategy struct {
	name string
	sel  cascadia.Selector
}

var containerStrategies = []containerStrategy{
	{"tweet-testid", cascadia.MustCompile(`article[data-testid="tweet"]`)},
	{"article-role", cascadia.MustCompile(`article[role="article"]`)},
	{"cell-inner", cascadia.MustCompile(`div[data-testid="cellInnerDiv"] article`)},
	{"bare-article", cascadia.MustCompile(`article`)},
}

// contentWaitSelector is the broad probe used to decide whether any post
// container rendered at all within the content timeout.
const contentWaitSelector = `article`

// textStrategies extract the post body.
var textStrategies = []cascadia.Selector{
	cascadia.MustCompile(`div[data-testid="tweetText"]`),
	cascadia.MustCompile(`div[lang]`),
	cascadia.MustCompile(`div[dir="auto"]`),
}

// displayNameStrategies extract the author display name.
var displayNameStrategies = []cascadia.Selector{
	cascadia.MustCompile(`div[data-testid="User-Name"] span`),
	cascadia.MustCompile(`div[data-testid="User-Names"] span`),
	cascadia.MustCompile(`a[role="link"] span`),
}

var (
	promotedMarker = cascadia.MustCompile(
		`div[data-testid="placementTracking"]`)

	// Pinned detection needs several fallbacks: the marker moved between
	// a social-context div and a bare svg label across deployments.
	pinnedMarkers = []cascadia.Selector{
		cascadia.MustCompile(`div[data-testid="socialContext"]`),
		cascadia.MustCompile(`svg[aria-label="Pinned"]`),
		cascadia.MustCompile(`div[data-testid="pinnedTweet"]`),
	}

	statusAnchor = cascadia.MustCompile(`a[href*="/status/"]`)

	timeElement = cascadia.MustCompile(`time`)

	imageMarker = cascadia.MustCompile(
		`div[data-testid="tweetPhoto"], div[data-testid="videoPlayer"], img[alt="Image"]`)

	metricSelectors = map[string]cascadia.Selector{
		"replies": cascadia.MustCompile(`[data-testid="reply"]`),
		"reposts": cascadia.MustCompile(`[data-testid="retweet"]`),
		"likes":   cascadia.MustCompile(`[data-testid="like"]`),
	}

	viewsAnchor = cascadia.MustCompile(`a[href$="/analytics"]`)
)

// pinnedScanLimit bounds how many leading candidates are checked for the
// pinned marker. Feeds rarely show more than one pin; beyond the first
// few candidates the marker is more likely a repost label, so those are
// extracted even if flagged.
const pinnedScanLimit = 3
