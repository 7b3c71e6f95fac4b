package leave

type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "Annual Leave"
	LeaveTypeSick   LeaveType = "Sick Leave"
)

func (t LeaveType) IsValid() bool {
	return t == LeaveTypeAnnual || t == LeaveTypeSick
}

// ItemKind is the discriminator of a DateItem
type ItemKind string

const (
	ItemKindFull ItemKind = "full"
	ItemKindHalf ItemKind = "half"
)

func (k ItemKind) IsValid() bool {
	return k == ItemKindFull || k == ItemKindHalf
}

type HalfDayPeriod string

const (
	PeriodAM HalfDayPeriod = "AM"
	PeriodPM HalfDayPeriod = "PM"
)

func (p HalfDayPeriod) IsValid() bool {
	return p == PeriodAM || p == PeriodPM
}

// DateItem is one line of a vacation request. It is implemented only by
// FullDay and HalfDay.
type DateItem interface {
	Kind() ItemKind
	LeaveType() LeaveType
	// Days is the number of leave days the item requests. Incomplete or
	// inconsistent items request nothing.
	Days() float64

	isDateItem()
}

// FullDay requests every calendar day from From to To inclusive.
type FullDay struct {
	From Date
	To   Date
	Type LeaveType
}

// HalfDay requests the morning or afternoon of a single date.
type HalfDay struct {
	Date   Date
	Period HalfDayPeriod
	Type   LeaveType
}

func (FullDay) Kind() ItemKind { return ItemKindFull }
func (f FullDay) LeaveType() LeaveType { return f.Type }
func (FullDay) isDateItem() {}
func (HalfDay) Kind() ItemKind { return ItemKindHalf }
func (h HalfDay) LeaveType() LeaveType { return h.Type }
func (HalfDay) isDateItem() {}

// NewItem returns the empty item of the given kind.
func NewItem(kind ItemKind, leaveType LeaveType) DateItem {
	if kind == ItemKindHalf {
		return HalfDay{Period: PeriodAM, Type: leaveType}
	}
	return FullDay{Type: leaveType}
}

// DefaultItem is what a freshly added row of the form holds.
func DefaultItem() DateItem {
	return NewItem(ItemKindFull, LeaveTypeAnnual)
}

// Balance is the employee's leave allowance as reported by the backend.
type Balance struct {
	TotalAllowance float64
	AlreadyUsed    float64
}

type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSucceeded  SubmissionStatus = "succeeded"
	SubmissionFailed     SubmissionStatus = "failed"
)

// SubmissionState carries the reason only when Status is SubmissionFailed.
type SubmissionState struct {
	Status SubmissionStatus
	Reason string
}

func (s SubmissionState) IsPending() bool {
	return s.Status == SubmissionSubmitting
}

// Submission is what the write boundary receives.
type Submission struct {
	EmployeeID     string
	IdempotencyKey string
	Items          []DateItem
	TotalDays      float64
}
