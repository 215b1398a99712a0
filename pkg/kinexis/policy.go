package kinexis

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Pattern is one bit of the caching policy's enabled-pattern set
// (spec.md §3: P ⊆ {CACHE_ASIDE, REFRESH_AHEAD, WRITE_BEHIND}).
type Pattern uint8

const (
	CacheAside Pattern = 1 << iota
	RefreshAhead
	WriteBehind
)

func (p Pattern) String() string {
	names := make([]string, 0, 3)

	if p&CacheAside != 0 {
		names = append(names, "CACHE_ASIDE")
	}

	if p&RefreshAhead != 0 {
		names = append(names, "REFRESH_AHEAD")
	}

	if p&WriteBehind != 0 {
		names = append(names, "WRITE_BEHIND")
	}

	if len(names) == 0 {
		return "NONE"
	}

	out := names[0]
	for _, n := range names[1:] {
		out += "|" + n
	}

	return out
}

// Format is the cache encoding for an entity's payload.
type Format int

const (
	FormatJSON Format = iota
	FormatHash
)

// Policy is the immutable, per-entity caching policy (spec.md §3).
type Policy struct {
	Prefix   string
	Patterns Pattern
	Format   Format
	TTL      time.Duration
	Enabled  bool
}

// Has reports whether pattern is part of the policy's bitset. A disabled
// policy never has any pattern, regardless of Patterns.
func (p Policy) Has(pattern Pattern) bool {
	return p.Enabled && p.Patterns&pattern != 0
}

// PolicyRegistry resolves and memoizes the policy for each registered
// entity name. Registration happens once per process before workers
// start (spec.md §4.1, §9 "Global state"); lookups afterward take no
// lock on the hot path beyond the registry's own read-mostly RWMutex.
type PolicyRegistry struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		policies: make(map[string]Policy),
	}
}

// Register computes and memoizes the policy for entityName. Calling it
// twice for the same name with a different policy is a PolicyMisconfigured
// error: the pattern set must be fixed once per type (spec.md §4.1).
func (r *PolicyRegistry) Register(entityName string, policy Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if policy.Prefix == "" {
		policy.Prefix = strings.ToLower(entityName)
	}

	if existing, ok := r.policies[entityName]; ok && existing != policy {
		return fmt.Errorf("%w: entity %q already registered with a different policy",
			ErrPolicyMisconfigured, entityName)
	}

	r.policies[entityName] = policy

	return nil
}

func (r *PolicyRegistry) lookup(entityName string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.policies[entityName]

	return p, ok
}

// Policy returns the memoized policy for entityName, or a zero Policy if
// it was never registered.
func (r *PolicyRegistry) Policy(entityName string) Policy {
	p, _ := r.lookup(entityName)

	return p
}

func (r *PolicyRegistry) HasCacheAside(entityName string) bool {
	p, _ := r.lookup(entityName)

	return p.Has(CacheAside)
}

func (r *PolicyRegistry) HasRefreshAhead(entityName string) bool {
	p, _ := r.lookup(entityName)

	return p.Has(RefreshAhead)
}

func (r *PolicyRegistry) HasWriteBehind(entityName string) bool {
	p, _ := r.lookup(entityName)

	return p.Has(WriteBehind)
}

// Prefix returns the cache namespace for entityName, falling back to the
// lower-cased entity name itself when no explicit prefix was declared.
func (r *PolicyRegistry) Prefix(entityName string) string {
	p, ok := r.lookup(entityName)
	if !ok || p.Prefix == "" {
		return strings.ToLower(entityName)
	}

	return p.Prefix
}
