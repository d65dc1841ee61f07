package domain

// ListingKind distinguishes the two listing variants stored in one table.
type ListingKind string

const (
	KindDemand  ListingKind = "demand"
	KindService ListingKind = "service"
)

func (k ListingKind) Valid() bool {
	switch k {
	case KindDemand, KindService:
		return true
	default:
		return false
	}
}

// ListingStatus is the lifecycle state shared by demands and services.
type ListingStatus string

const (
	ListingDraft     ListingStatus = "draft"
	ListingPending   ListingStatus = "pending"
	ListingApproved  ListingStatus = "approved"
	ListingRejected  ListingStatus = "rejected"
	ListingOpen      ListingStatus = "open"
	ListingClosed    ListingStatus = "closed"
	ListingAwarded   ListingStatus = "awarded"
	ListingCompleted ListingStatus = "completed"
)

// ListingStatuses lists every listing state.
var ListingStatuses = []ListingStatus{
	ListingDraft, ListingPending, ListingApproved, ListingRejected,
	ListingOpen, ListingClosed, ListingAwarded, ListingCompleted,
}

func (s ListingStatus) Valid() bool {
	for _, v := range ListingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Discoverable reports whether a listing in this status may appear in public results.
func (s ListingStatus) Discoverable() bool {
	return s == ListingApproved || s == ListingOpen
}

// ListingAction is a request to move a listing between states.
type ListingAction string

const (
	ListingActApprove  ListingAction = "approve"
	ListingActReject   ListingAction = "reject"
	ListingActOpen     ListingAction = "open"
	ListingActClose    ListingAction = "close"
	ListingActAward    ListingAction = "award"
	ListingActComplete ListingAction = "complete"
)

var ListingActions = []ListingAction{
	ListingActApprove, ListingActReject, ListingActOpen,
	ListingActClose, ListingActAward, ListingActComplete,
}

// OperationalAction maps a requested operational target status to its action.
func OperationalAction(target ListingStatus) (ListingAction, bool) {
	switch target {
	case ListingOpen:
		return ListingActOpen, true
	case ListingClosed:
		return ListingActClose, true
	case ListingAwarded:
		return ListingActAward, true
	case ListingCompleted:
		return ListingActComplete, true
	default:
		return "", false
	}
}

// NextListingStatus returns the state reached by applying action to a listing of the
// given kind in state from. Award and complete exist only for demands.
func NextListingStatus(kind ListingKind, from ListingStatus, action ListingAction) (ListingStatus, error) {
	fail := stateError(string(kind), string(from), string(action))
	demandOnly := func(to ListingStatus) (ListingStatus, error) {
		if kind != KindDemand {
			return from, fail
		}
		return to, nil
	}

	switch from {
	case ListingPending:
		switch action {
		case ListingActApprove:
			return ListingApproved, nil
		case ListingActReject:
			return ListingRejected, nil
		}
	case ListingDraft, ListingApproved:
		if action == ListingActOpen {
			return ListingOpen, nil
		}
	case ListingOpen:
		switch action {
		case ListingActClose:
			return ListingClosed, nil
		case ListingActAward:
			return demandOnly(ListingAwarded)
		}
	case ListingClosed:
		switch action {
		case ListingActAward:
			return demandOnly(ListingAwarded)
		case ListingActComplete:
			return demandOnly(ListingCompleted)
		}
	case ListingAwarded:
		if action == ListingActComplete {
			return demandOnly(ListingCompleted)
		}
	case ListingRejected, ListingCompleted:
	}
	return from, fail
}

// Decision is an owner or moderator verdict on a pending record.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision accepts both the verb and the resulting status spelling.
func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "approve", "approved":
		return DecisionApprove, true
	case "reject", "rejected":
		return DecisionReject, true
	default:
		return "", false
	}
}

// ApplicationStatus is the state of a DemandApplication.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

var ApplicationStatuses = []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	default:
		return false
	}
}

// NextApplicationStatus applies an owner decision. Approved and rejected are terminal.
func NextApplicationStatus(from ApplicationStatus, d Decision) (ApplicationStatus, error) {
	switch from {
	case ApplicationPending:
		switch d {
		case DecisionApprove:
			return ApplicationApproved, nil
		case DecisionReject:
			return ApplicationRejected, nil
		}
	case ApplicationApproved, ApplicationRejected:
	}
	return from, stateError("application", string(from), string(d))
}

// RentalStatus is the state of a ServiceRental.
type RentalStatus string

const (
	RentalPending    RentalStatus = "pending"
	RentalApproved   RentalStatus = "approved"
	RentalRejected   RentalStatus = "rejected"
	RentalInProgress RentalStatus = "in_progress"
	RentalCompleted  RentalStatus = "completed"
	RentalCancelled  RentalStatus = "cancelled"
)

var RentalStatuses = []RentalStatus{
	RentalPending, RentalApproved, RentalRejected,
	RentalInProgress, RentalCompleted, RentalCancelled,
}

func (s RentalStatus) Valid() bool {
	for _, v := range RentalStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist.
func (s RentalStatus) Terminal() bool {
	return s == RentalCompleted || s == RentalRejected || s == RentalCancelled
}

// Blocking reports whether the rental holds its time slots.
func (s RentalStatus) Blocking() bool {
	return s == RentalApproved || s == RentalInProgress
}

// RentalAction is a request to move a rental between states.
type RentalAction string

const (
	RentalActApprove  RentalAction = "approve"
	RentalActReject   RentalAction = "reject"
	RentalActStart    RentalAction = "start"
	RentalActCancel   RentalAction = "cancel"
	RentalActComplete RentalAction = "complete"
)

var RentalActions = []RentalAction{
	RentalActApprove, RentalActReject, RentalActStart, RentalActCancel, RentalActComplete,
}

// DecisionAction maps an owner decision onto the rental action set.
func DecisionAction(d Decision) RentalAction {
	if d == DecisionApprove {
		return RentalActApprove
	}
	return RentalActReject
}

// NextRentalStatus applies action to a rental in state from. Completing an approved
// rental is accepted and implies the in-progress phase.
func NextRentalStatus(from RentalStatus, action RentalAction) (RentalStatus, error) {
	switch from {
	case RentalPending:
		switch action {
		case RentalActApprove:
			return RentalApproved, nil
		case RentalActReject:
			return RentalRejected, nil
		case RentalActCancel:
			return RentalCancelled, nil
		}
	case RentalApproved:
		switch action {
		case RentalActStart:
			return RentalInProgress, nil
		case RentalActComplete:
			return RentalCompleted, nil
		case RentalActCancel:
			return RentalCancelled, nil
		}
	case RentalInProgress:
		switch action {
		case RentalActComplete:
			return RentalCompleted, nil
		case RentalActCancel:
			return RentalCancelled, nil
		}
	case RentalRejected, RentalCompleted, RentalCancelled:
	}
	return from, stateError("rental", string(from), string(action))
}
