package session

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// configToProto maps human-readable config strings to Rod protocol resource types.
var configToProto = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// trackingDomains are analytics and ad hosts the timeline page calls out
// to. Blocking them cuts load time and removes a class of requests that
// can stall the network-quiescence wait.
var trackingDomains = map[string]struct{}{
	"google-analytics.com":   {},
	"googletagmanager.com":   {},
	"doubleclick.net":        {},
	"googlesyndication.com":  {},
	"ads-twitter.com":        {},
	"static.ads-twitter.com": {},
	"analytics.twitter.com":  {},
	"branch.io":              {},
	"app.link":               {},
	"scorecardresearch.com":  {},
	"hotjar.com":             {},
	"mixpanel.com":           {},
}

// isTrackingDomain checks a hostname and all its parent domains.
func isTrackingDomain(host string) bool {
	host = strings.ToLower(host)
	if _, ok := trackingDomains[host]; ok {
		return true
	}
	for {
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
		if _, ok := trackingDomains[host]; ok {
			return true
		}
	}
}

// setupHijack installs a request interceptor on the page that blocks the
// configured resource types plus known tracking domains.
//
// Returns the running HijackRouter so the caller can stop it, or nil if
// there is nothing to block.
func setupHijack(page *rod.Page, blockedTypes []string) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := configToProto[name]; ok {
			blocked[rt] = struct{}{}
		}
	}

	router := page.HijackRequests()

	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, shouldBlock := blocked[ctx.Request.Type()]; shouldBlock {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		if u, err := url.Parse(ctx.Request.URL().String()); err == nil {
			if isTrackingDomain(u.Hostname()) {
				ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It exits when router.Stop() is called or the page closes.
	go router.Run()

	return router
}
