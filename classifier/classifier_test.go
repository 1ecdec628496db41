package classifier

import (
	"strings"
	"testing"

	"github.com/birdwatch-dev/birdwatch/models"
)

// profilePage builds a minimal rendered profile shell around the given body.
func profilePage(handle, body string) string {
	return `<html><body>
		<div data-testid="primaryColumn">
			<div data-testid="UserName"><span>@` + handle + `</span></div>
			` + body + `
		</div>
	</body></html>`
}

func TestClassify_AuthRedirectWinsRegardlessOfContent(t *testing.T) {
	// Content mentions suspension, but the login redirect decides.
	html := profilePage("jack", "<p>Account suspended</p>")

	got := Classify("https://x.com/i/flow/login?redirect_after_login=%2Fjack", html, "jack")

	if got.OK {
		t.Fatal("expected invalid outcome for login redirect")
	}
	if got.Code != models.ErrCodeAuthRequired {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeAuthRequired)
	}
}

func TestClassify_LoginPath(t *testing.T) {
	got := Classify("https://x.com/login", "<html><body>Sign in</body></html>", "jack")
	if got.Code != models.ErrCodeAuthRequired {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeAuthRequired)
	}
}

func TestClassify_RateLimited(t *testing.T) {
	html := "<html><body><p>Rate limit exceeded. Try again later.</p></body></html>"
	got := Classify("https://x.com/jack", html, "jack")
	if got.Code != models.ErrCodeRateLimited {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeRateLimited)
	}
}

func TestClassify_SuspendedOnTargetURL(t *testing.T) {
	html := "<html><body><p>Account suspended. X suspends accounts that violate the rules.</p></body></html>"
	got := Classify("https://x.com/jack", html, "jack")
	if got.Code != models.ErrCodeSuspended {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeSuspended)
	}
}

func TestClassify_SuspensionPhraseOffTargetIsNotSuspended(t *testing.T) {
	// Suspension wording in chrome of an unrelated page must not flag
	// the target as suspended.
	html := profilePage("someoneelse", "<p>Learn how X suspends accounts that violate the rules</p>")
	got := Classify("https://x.com/someoneelse", html, "jack")
	if got.Code == models.ErrCodeSuspended {
		t.Error("suspension must be gated on the target's own profile URL")
	}
}

func TestClassify_NotFound(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"on target url", "https://x.com/jack"},
		{"generic not-found route", "https://x.com/i/404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := "<html><body><p>This account doesn't exist. Try searching for another.</p></body></html>"
			got := Classify(tt.url, html, "jack")
			if got.Code != models.ErrCodeNotFound {
				t.Errorf("code = %s, want %s", got.Code, models.ErrCodeNotFound)
			}
		})
	}
}

func TestClassify_Protected(t *testing.T) {
	html := profilePage("jack", "<p>These tweets are protected. Only approved followers can see them.</p>")
	got := Classify("https://x.com/jack", html, "jack")
	if got.Code != models.ErrCodeProtected {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeProtected)
	}
}

func TestClassify_ProtectedWithoutURLMatch(t *testing.T) {
	// Protected walls can render behind a redirect; no URL gate applies.
	html := "<html><body><p>This account protects their posts.</p></body></html>"
	got := Classify("https://x.com/intent/follow?screen_name=jack", html, "jack")
	if got.Code != models.ErrCodeProtected {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeProtected)
	}
}

func TestClassify_ProfileLoadFailed(t *testing.T) {
	// On the target URL, but nothing that looks like a profile rendered.
	html := "<html><body><div>something went wrong, but not a known wall</div></body></html>"
	got := Classify("https://x.com/jack", html, "jack")
	if got.Code != models.ErrCodeProfileLoadFailed {
		t.Errorf("code = %s, want %s", got.Code, models.ErrCodeProfileLoadFailed)
	}
}

func TestClassify_ValidProfile(t *testing.T) {
	html := profilePage("jack", "<article data-testid='tweet'>hello world</article>")
	got := Classify("https://x.com/jack", html, "jack")
	if !got.OK {
		t.Fatalf("expected valid outcome, got %s (%s)", got.Code, got.Reason)
	}
}

func TestClassify_HandleCaseInsensitive(t *testing.T) {
	html := profilePage("Jack", "<p>Joined March 2006</p>")
	got := Classify("https://x.com/Jack", html, "jack")
	if !got.OK {
		t.Fatalf("URL/handle match must be case-insensitive, got %s", got.Code)
	}
}

func TestURLMatchesTarget(t *testing.T) {
	tests := []struct {
		url    string
		handle string
		want   bool
	}{
		{"https://x.com/jack", "jack", true},
		{"https://x.com/JACK", "jack", true},
		{"https://x.com/jack/with_replies", "jack", true},
		{"https://x.com/other", "jack", false},
		{"https://x.com/", "jack", false},
		{"://bad url", "jack", false},
	}
	for _, tt := range tests {
		if got := URLMatchesTarget(tt.url, tt.handle); got != tt.want {
			t.Errorf("URLMatchesTarget(%q, %q) = %v, want %v", tt.url, tt.handle, got, tt.want)
		}
	}
}

func TestVisibleText_SkipsScriptAndStyle(t *testing.T) {
	html := `<html><head><style>p { color: red }</style></head>
		<body><script>var rateLimited = "rate limit exceeded";</script><p>hello</p></body></html>`

	text := VisibleText(html)
	if strings.Contains(text, "rate limit exceeded") {
		t.Error("script content must not leak into visible text")
	}
	if !strings.Contains(text, "hello") {
		t.Error("body text missing from visible text")
	}
}
