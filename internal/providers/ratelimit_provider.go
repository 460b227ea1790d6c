package providers

import (
	"sync"
	"surveyd/internal/structures"
	"time"
)

// Rate limit tier names. Each tier has its own ceiling and window; windows
// are independent per tier and per client identity.
const (
	TierAPI    = "api"
	TierSurvey = "survey"
	TierAuth   = "auth"
	TierRgpd   = "rgpd"
)

var tierMessages = map[string]string{
	TierAPI:    "Too many requests. Please try again in a moment.",
	TierSurvey: "Submission limit reached. Please try again later.",
	TierAuth:   "Too many login attempts. Please try again in 15 minutes.",
	TierRgpd:   "Too many data requests. Please try again later.",
}

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Count     int
	Limit     int
	Remaining int
	ResetAt   time.Time
	Message   string
}

type RateLimiterInterface interface {
	Allow(tier, key string) Decision
	Forgive(tier, key string)
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

type tierLimiter struct {
	limit   int
	window  time.Duration
	message string
	items   map[string]rateWindow
}

// RateLimiter holds one fixed-window counter set per tier. All state is
// memory-resident; elapsed windows are cleaned up opportunistically on
// each check.
type RateLimiter struct {
	mu    sync.Mutex
	tiers map[string]*tierLimiter
	now   func() time.Time
}

func NewRateLimiter(conf *structures.Config) RateLimiterInterface {
	rl := &RateLimiter{
		tiers: make(map[string]*tierLimiter),
		now:   time.Now,
	}
	for name, tier := range map[string]structures.RateTier{
		TierAPI:    conf.RateLimit.API,
		TierSurvey: conf.RateLimit.Survey,
		TierAuth:   conf.RateLimit.Auth,
		TierRgpd:   conf.RateLimit.Rgpd,
	} {
		rl.tiers[name] = &tierLimiter{
			limit:   tier.Limit,
			window:  tier.Window,
			message: tierMessages[name],
			items:   make(map[string]rateWindow),
		}
	}
	return rl
}

// Allow counts one request against the tier's window for the given key
// and reports whether it stays within the ceiling. Unknown tiers allow
// everything.
func (rl *RateLimiter) Allow(tier, key string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tl, ok := rl.tiers[tier]
	if !ok {
		return Decision{Allowed: true}
	}

	now := rl.now()
	tl.cleanup(now)

	curr, ok := tl.items[key]
	if !ok || now.After(curr.resetAt) {
		curr = rateWindow{resetAt: now.Add(tl.window)}
	}
	curr.count++
	tl.items[key] = curr

	remaining := tl.limit - curr.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   curr.count <= tl.limit,
		Count:     curr.count,
		Limit:     tl.limit,
		Remaining: remaining,
		ResetAt:   curr.resetAt,
		Message:   tl.message,
	}
}

// Forgive returns one unit of budget to the key's current window. Used by
// the auth tier so that successful logins do not count toward the
// failed-attempt ceiling.
func (rl *RateLimiter) Forgive(tier, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tl, ok := rl.tiers[tier]
	if !ok {
		return
	}
	curr, ok := tl.items[key]
	if !ok || curr.count == 0 {
		return
	}
	curr.count--
	if curr.count == 0 {
		delete(tl.items, key)
		return
	}
	tl.items[key] = curr
}

func (tl *tierLimiter) cleanup(now time.Time) {
	for k, v := range tl.items {
		if now.After(v.resetAt) {
			delete(tl.items, k)
		}
	}
}
