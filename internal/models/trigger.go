package models

import "time"

// TriggerKind is one of the six canonical daily events per user:
// one morning digest and five plan-tomorrow prompts.
type TriggerKind string

const (
	TriggerDigest TriggerKind = "DIGEST"
	TriggerPlan10 TriggerKind = "PLAN_10"
	TriggerPlan13 TriggerKind = "PLAN_13"
	TriggerPlan16 TriggerKind = "PLAN_16"
	TriggerPlan19 TriggerKind = "PLAN_19"
	TriggerPlan22 TriggerKind = "PLAN_22"
)

// DailyTriggers lists every trigger kind scheduled for an active user.
var DailyTriggers = []TriggerKind{
	TriggerDigest,
	TriggerPlan10,
	TriggerPlan13,
	TriggerPlan16,
	TriggerPlan19,
	TriggerPlan22,
}

// Hour returns the canonical local hour at which the trigger fires.
func (k TriggerKind) Hour() int {
	switch k {
	case TriggerDigest:
		return 8
	case TriggerPlan10:
		return 10
	case TriggerPlan13:
		return 13
	case TriggerPlan16:
		return 16
	case TriggerPlan19:
		return 19
	case TriggerPlan22:
		return 22
	}
	return 0
}

// IsPlan reports whether the kind is one of the planning prompts.
func (k TriggerKind) IsPlan() bool {
	return k != TriggerDigest
}

// TriggerEntry is one scheduled firing. Entries are transient: the whole
// set is reconstructible from User records and the canonical local times,
// so nothing here is persisted.
type TriggerEntry struct {
	UserID   int64
	Kind     TriggerKind
	NextFire time.Time
}
