// Package session owns the process-wide answer to "who is acting and
// what may they reach". It tracks the active identity plus two
// independent completeness gates (buyer profile, seller profile) and
// re-derives both on every identity change.
package session

import (
	"context"
	"sync"

	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/model"
)

// State is the gate's lifecycle state.
type State int

const (
	// StateUnknown means Resolve has never run.
	StateUnknown State = iota
	// StateAnonymous means no identity is active.
	StateAnonymous
	// StateResolving means an identity is active but its completeness
	// checks have not both settled yet.
	StateResolving
	// StateResolved means the identity and both gates are settled.
	StateResolved
)

// Redirect targets used by the guards.
const (
	PathSignIn                = "/signin"
	PathCompleteProfile       = "/complete-profile"
	PathCompleteSellerProfile = "/complete-seller-profile"
)

// DecisionState classifies a guard outcome.
type DecisionState int

const (
	// DecisionAllowed lets the protected action proceed.
	DecisionAllowed DecisionState = iota
	// DecisionPending means the gate is still resolving; callers must
	// wait rather than redirect prematurely.
	DecisionPending
	// DecisionRedirect denies the action and names the completion flow
	// to send the user through.
	DecisionRedirect
)

// Decision is a guard verdict. ReturnTo carries the caller's target
// path so the completion flow can come back to it.
type Decision struct {
	State      DecisionState
	RedirectTo string
	ReturnTo   string
}

// Allowed reports whether the protected action may proceed.
func (d Decision) Allowed() bool { return d.State == DecisionAllowed }

// Pending reports whether the caller should defer and retry.
func (d Decision) Pending() bool { return d.State == DecisionPending }

// Gate is the session state machine. All mutation happens through
// Resolve and SignOut; everything else is a read.
type Gate struct {
	api    model.CommerceAPI
	flags  model.FlagStore
	logger *logger.Logger

	mu             sync.RWMutex
	state          State
	identity       model.Identity
	buyerComplete  bool
	sellerComplete bool
	epoch          uint64
}

// NewGate creates a session gate in StateUnknown.
func NewGate(api model.CommerceAPI, flags model.FlagStore, l *logger.Logger) *Gate {
	return &Gate{
		api:    api,
		flags:  flags,
		logger: l,
	}
}

// Resolve makes the given identity active and re-derives both
// completeness gates. The two checks run concurrently; each failure
// degrades to the persisted fallback flag instead of propagating, so a
// failed check never blocks sign-in. Resolve blocks until both checks
// settle and is safe to call repeatedly with the same identity.
//
// A zero identity is treated as identity loss and behaves like
// SignOut.
func (g *Gate) Resolve(ctx context.Context, identity model.Identity) {
	if identity.IsZero() {
		g.SignOut(ctx)
		return
	}

	g.mu.Lock()
	g.epoch++
	myEpoch := g.epoch
	g.state = StateResolving
	g.identity = identity
	g.mu.Unlock()

	g.logger.Debug("session gate: resolving identity", "uid", identity.UID)

	var wg sync.WaitGroup
	var buyer, seller bool

	wg.Add(2)
	go func() {
		defer wg.Done()
		buyer = g.checkGate(ctx, identity.UID, model.FlagProfileComplete, myEpoch, func() (bool, error) {
			profile, err := g.api.FetchProfile(ctx)
			return profile.ProfileCompleted, err
		})
	}()
	go func() {
		defer wg.Done()
		seller = g.checkGate(ctx, identity.UID, model.FlagSellerProfileComplete, myEpoch, func() (bool, error) {
			return g.api.FetchSellerStatus(ctx)
		})
	}()
	wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.epoch != myEpoch {
		g.logger.Debug("session gate: discarding superseded resolve", "uid", identity.UID)
		return
	}

	g.buyerComplete = buyer
	g.sellerComplete = seller
	g.state = StateResolved

	g.logger.Info("session gate: identity resolved",
		"uid", identity.UID,
		"buyer_complete", buyer,
		"seller_complete", seller)
}

// checkGate runs one live completeness check. On success the fresh
// value is persisted as the new fallback; on failure the last persisted
// value (if still within its TTL) is used instead.
func (g *Gate) checkGate(ctx context.Context, uid, key string, epoch uint64, check func() (bool, error)) bool {
	value, err := check()
	if err == nil {
		// Skip the persist when the identity changed mid-check, so a
		// late result cannot resurrect markers a sign-out just
		// cleared.
		if g.Epoch() != epoch {
			return value
		}
		if serr := g.flags.Set(ctx, uid, key, value); serr != nil {
			g.logger.Error("session gate: failed to persist fallback flag",
				"uid", uid,
				"key", key,
				"error", serr.Error())
		}
		return value
	}

	g.logger.Error("session gate: completeness check failed, using fallback",
		"uid", uid,
		"key", key,
		"error", err.Error())

	fallback, ok, ferr := g.flags.Get(ctx, uid, key)
	if ferr != nil {
		g.logger.Error("session gate: failed to read fallback flag",
			"uid", uid,
			"key", key,
			"error", ferr.Error())
		return false
	}
	if !ok {
		return false
	}
	return fallback
}

// SignOut clears the identity, both gates, and the persisted fallback
// markers. Idempotent.
func (g *Gate) SignOut(ctx context.Context) {
	g.mu.Lock()
	prevUID := g.identity.UID
	g.epoch++
	g.identity = model.Identity{}
	g.buyerComplete = false
	g.sellerComplete = false
	g.state = StateAnonymous
	g.mu.Unlock()

	if prevUID == "" {
		return
	}

	if err := g.flags.Clear(ctx, prevUID); err != nil {
		g.logger.Error("session gate: failed to clear fallback flags",
			"uid", prevUID,
			"error", err.Error())
	}
	g.logger.Info("session gate: signed out", "uid", prevUID)
}

// RequireBuyerProfile gates a protected buyer action. While the gate is
// resolving the decision is pending, never a premature redirect.
func (g *Gate) RequireBuyerProfile(targetPath string) Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch {
	case g.state == StateUnknown || g.state == StateResolving:
		return Decision{State: DecisionPending, ReturnTo: targetPath}
	case g.identity.IsZero():
		return Decision{State: DecisionRedirect, RedirectTo: PathSignIn, ReturnTo: targetPath}
	case !g.buyerComplete:
		return Decision{State: DecisionRedirect, RedirectTo: PathCompleteProfile, ReturnTo: targetPath}
	default:
		return Decision{State: DecisionAllowed}
	}
}

// RequireSellerProfile gates a protected seller action.
func (g *Gate) RequireSellerProfile(targetPath string) Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch {
	case g.state == StateUnknown || g.state == StateResolving:
		return Decision{State: DecisionPending, ReturnTo: targetPath}
	case g.identity.IsZero():
		return Decision{State: DecisionRedirect, RedirectTo: PathSignIn, ReturnTo: targetPath}
	case !g.sellerComplete:
		return Decision{State: DecisionRedirect, RedirectTo: PathCompleteSellerProfile, ReturnTo: targetPath}
	default:
		return Decision{State: DecisionAllowed}
	}
}

// State returns the current lifecycle state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Identity returns the active identity, zero when anonymous.
func (g *Gate) Identity() model.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.identity
}

// Epoch increments on every identity change. Consumers snapshot it
// before a network call and discard the result if it moved.
func (g *Gate) Epoch() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.epoch
}

// BuyerComplete reports the buyer gate. Meaningful once resolved.
func (g *Gate) BuyerComplete() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.buyerComplete
}

// SellerComplete reports the seller gate. Meaningful once resolved.
func (g *Gate) SellerComplete() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sellerComplete
}
