package authclient

import (
	"context"
	"sort"
)

// Resolver determines the single account role an identity holds and whether
// that role is approved. It is a pure function of the candidate sources at
// call time: no state is held between invocations, and resolving the same
// identity twice against unchanged sources yields the identical record.
type Resolver struct {
	sources  []ProfileSource
	logger   Logger
	activity ActivitySink
}

// NewResolver builds a Resolver over the given candidate sources. Sources
// are ordered by the fixed role precedence regardless of argument order, so
// a misconfigured caller cannot invert the contract.
func NewResolver(sources ...ProfileSource) *Resolver {
	ordered := make([]ProfileSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return precedenceIndex(ordered[i].Role()) < precedenceIndex(ordered[j].Role())
	})

	return &Resolver{
		sources:  ordered,
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

func (r *Resolver) WithLogger(logger Logger) *Resolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithActivitySink configures an ActivitySink for resolution events.
func (r *Resolver) WithActivitySink(sink ActivitySink) *Resolver {
	r.activity = normalizeActivitySink(sink)
	return r
}

// Resolve walks the candidate sources in precedence order and returns the
// first match. A missing row is a miss; any other lookup error is a logged
// miss, because degraded visibility beats total failure. Identities that
// match nothing resolve to the generic user role, active: "no role yet" is
// an expected state for a brand-new account, not a fault.
func (r *Resolver) Resolve(ctx context.Context, identityID string) (*RoleRecord, error) {
	for _, source := range r.sources {
		profile, err := source.Lookup(ctx, identityID)
		if err != nil {
			if !IsProfileNotFound(err) {
				r.logger.Warn("profile lookup for role %q failed, continuing: %v", source.Role(), err)
			}
			continue
		}
		if profile == nil {
			continue
		}

		record := &RoleRecord{
			Role:     source.Role(),
			Approval: approvalForRole(source.Role(), profile.Status),
			Profile:  profile.Data,
		}

		recordActivity(ctx, r.activity, r.logger, ActivityEvent{
			EventType: ActivityEventRoleResolved,
			UserID:    identityID,
			Role:      record.Role,
			Metadata:  map[string]any{"approval": record.Approval},
		})

		return record, nil
	}

	record := GenericRoleRecord()
	recordActivity(ctx, r.activity, r.logger, ActivityEvent{
		EventType: ActivityEventRoleResolved,
		UserID:    identityID,
		Role:      record.Role,
		Metadata:  map[string]any{"approval": record.Approval},
	})

	return record, nil
}
