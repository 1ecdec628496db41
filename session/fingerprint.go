package session

// Fingerprint is the static descriptor of the headers, user agent, and
// JS-visible navigator properties a page presents. It exists to make the
// automated session look like an ordinary desktop browser; it does not
// attempt to defeat anything beyond basic automation checks.
type Fingerprint struct {
	UserAgent      string
	AcceptLanguage string

	// ExtraHeaders mimic a real browser's navigation request headers.
	ExtraHeaders map[string]string

	// InitScript runs on every new document before any page script.
	InitScript string
}

// DefaultFingerprint builds the fingerprint used for every page of a
// session. The user agent comes from config so deployments can track
// current Chrome releases without a rebuild.
func DefaultFingerprint(userAgent string) Fingerprint {
	return Fingerprint{
		UserAgent:      userAgent,
		AcceptLanguage: "en-US,en;q=0.9",
		ExtraHeaders: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Upgrade-Insecure-Requests": "1",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Sec-Fetch-User":            "?1",
		},
		InitScript: maskScript,
	}
}

// maskScript hides the most common automation giveaways and clears any
// storage left over from a previous navigation on the shared page. It
// complements stealth.JS, which covers the long tail.
const maskScript = `() => {
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined,
		configurable: true,
	});
	Object.defineProperty(navigator, 'plugins', {
		get: () => [1, 2, 3, 4, 5],
		configurable: true,
	});
	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en'],
		configurable: true,
	});
	window.chrome = window.chrome || {};
	window.chrome.runtime = window.chrome.runtime || {};
	try {
		localStorage.clear();
		sessionStorage.clear();
	} catch (e) {}
}`
