package ratelimit

// Guard throttles access attempts per session and per client address.
// A client that drops its session cookie still spends its address bucket.
type Guard struct {
	session *Limiter
	client  *Limiter
}

// NewGuard combines a session limiter and a client address limiter. Either may be nil.
func NewGuard(session, client *Limiter) *Guard {
	return &Guard{session: session, client: client}
}

// Allow consumes one attempt for sessionID and then for clientAddr.
// The address bucket is untouched when the session is already throttled.
func (g *Guard) Allow(sessionID, clientAddr string) bool {
	if g.session != nil && !g.session.Allow(sessionID) {
		return false
	}
	if g.client != nil && clientAddr != "" && !g.client.Allow(clientAddr) {
		return false
	}
	return true
}
