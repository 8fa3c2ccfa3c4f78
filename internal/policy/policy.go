package policy

import (
	"github.com/coding-online/mco-exam/internal/catalog"
	"github.com/coding-online/mco-exam/internal/grading"
)

// Reason explains a denial. User-visible; not retryable until state changes.
type Reason string

const (
	ReasonQuotaExceeded    Reason = "quota_exceeded"    // global practice ceiling hit
	ReasonAlreadyPassed    Reason = "already_passed"    // pass-lock on a certification exam
	ReasonAttemptsExceeded Reason = "attempts_exceeded" // certification retry ceiling hit
	ReasonNotEntitled      Reason = "not_entitled"      // paid exam not purchased
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision        { return Decision{Allowed: true} }
func Deny(r Reason) Decision { return Decision{Reason: r} }

// DeniedError carries a denial across the service boundary.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string { return "attempt denied: " + string(e.Reason) }

// User is the policy-relevant slice of the SSO identity.
type User struct {
	ID          string
	Unlimited   bool // subscription flag: no practice quota, all exams entitled
	PaidExamIDs []string
}

func (u User) entitled(examID string) bool {
	if u.Unlimited {
		return true
	}
	for _, id := range u.PaidExamIDs {
		if id == examID {
			return true
		}
	}
	return false
}

// Gate decides whether a user may start (or submit) an attempt. It must be
// consulted again at submission time, under the store's submission lock, so
// two in-flight attempts can't both slip past the count checks.
type Gate struct {
	PracticeLimit int // across all practice exams combined
	CertLimit     int // per certification exam
}

func NewGate(practiceLimit, certLimit int) Gate {
	return Gate{PracticeLimit: practiceLimit, CertLimit: certLimit}
}

// Authorize evaluates the attempt rules against the user's prior results.
// isPractice classifies arbitrary exam ids so the global practice quota can
// count results from every practice exam, not just this one.
func (g Gate) Authorize(u User, def catalog.ExamDefinition, prior []grading.ResultRecord, isPractice func(examID string) bool) Decision {
	if !def.IsPractice && def.PriceCents > 0 && !u.entitled(def.ID) {
		return Deny(ReasonNotEntitled)
	}

	if def.IsPractice {
		if u.Unlimited {
			return Allow()
		}
		used := 0
		for _, r := range prior {
			if isPractice(r.ExamID) {
				used++
			}
		}
		if used >= g.PracticeLimit {
			return Deny(ReasonQuotaExceeded)
		}
		return Allow()
	}

	attempts := 0
	for _, r := range prior {
		if r.ExamID != def.ID {
			continue
		}
		if r.Passed(def.PassThresholdPercent) {
			return Deny(ReasonAlreadyPassed)
		}
		attempts++
	}
	if attempts >= g.CertLimit {
		return Deny(ReasonAttemptsExceeded)
	}
	return Allow()
}
