package session

import "testing"

func TestParseCookiePayload_Array(t *testing.T) {
	raw := `[
		{"name":"auth_token","value":"abc123","domain":".x.com","path":"/","expirationDate":1893456000,"secure":true,"httpOnly":true},
		{"name":"ct0","value":"def456","domain":".x.com"}
	]`

	cookies, err := ParseCookiePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	if cookies[0].Name != "auth_token" || cookies[0].Value != "abc123" {
		t.Errorf("first cookie = %+v", cookies[0])
	}
	if !cookies[0].Secure || !cookies[0].HTTPOnly {
		t.Error("secure/httpOnly flags lost in decode")
	}
	if cookies[1].Path != "/" {
		t.Errorf("Path = %q, want default /", cookies[1].Path)
	}
}

func TestParseCookiePayload_SingleObject(t *testing.T) {
	cookies, err := ParseCookiePayload(`{"name":"auth_token","value":"abc","domain":".x.com"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
}

func TestParseCookiePayload_DropsIncomplete(t *testing.T) {
	raw := `[
		{"name":"ok","value":"v","domain":".x.com"},
		{"name":"","value":"v","domain":".x.com"},
		{"name":"no_value","domain":".x.com"},
		{"name":"no_domain","value":"v"}
	]`

	cookies, err := ParseCookiePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "ok" {
		t.Fatalf("got %+v, want only the complete cookie", cookies)
	}
}

func TestParseCookiePayload_Garbage(t *testing.T) {
	if _, err := ParseCookiePayload(`not json at all`); err == nil {
		t.Error("expected error for non-JSON payload")
	}
	if _, err := ParseCookiePayload(`42`); err == nil {
		t.Error("expected error for a bare number")
	}
}
