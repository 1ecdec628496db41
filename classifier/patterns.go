package classifier

// Pattern lists consumed by Classify. The DOM heuristics these encode are
// inherently fragile, so they live here as configuration data: updating
// them must never require touching the evaluation order in classifier.go.
//
// All content phrases are matched case-insensitively against the page's
// visible text.

// AuthURLMarkers flag a redirect into an authentication or signup flow.
// Matched against the final URL, not the content.
var AuthURLMarkers = []string{
	"/login",
	"/i/flow/login",
	"/i/flow/signup",
	"/signup",
	"/account/access",
}

// RateLimitPhrases flag a rate-limited or temporarily restricted page.
var RateLimitPhrases = []string{
	"rate limit exceeded",
	"rate limited",
	"too many requests",
	"temporarily restricted",
	"try again later",
	"you are unable to view this",
}

// SuspendedPhrases flag a suspended account. Only trusted when the final
// URL is confirmed to be the target's own profile, since the same wording
// shows up in unrelated page regions.
var SuspendedPhrases = []string{
	"account suspended",
	"account has been suspended",
	"suspends accounts that violate",
}

// NotFoundPhrases flag a missing account. Gated on the URL matching the
// target or a generic not-found route.
var NotFoundPhrases = []string{
	"this account doesn't exist",
	"this account doesn’t exist",
	"try searching for another",
	"page doesn't exist",
	"page doesn’t exist",
}

// NotFoundRoutes are generic not-found URL paths.
var NotFoundRoutes = []string{
	"/404",
	"/i/404",
}

// ProtectedPhrases flag a protected (private) account. Checked regardless
// of URL match: the wall renders on the profile URL itself.
var ProtectedPhrases = []string{
	"these posts are protected",
	"these tweets are protected",
	"tweets are protected",
	"posts are protected",
	"protects their posts",
	"protects their tweets",
}

// ProfileMarkers are structural indicators that the profile shell
// actually rendered. The target handle itself is checked alongside these.
var ProfileMarkers = []string{
	`data-testid="username"`,
	`data-testid="user-name"`,
	`data-testid="userprofileheader_items"`,
	`data-testid="primarycolumn"`,
	"joined",
	"followers",
	"following",
}
