package leave

// ItemPatch is a partial update of a DateItem. Fields that do not belong to
// the resulting kind are ignored.
type ItemPatch struct {
	Kind      *ItemKind
	LeaveType *LeaveType

	// FullDay
	From *Date
	To   *Date

	// HalfDay
	Date   *Date
	Period *HalfDayPeriod
}

// Apply returns a new item reflecting the patch. Changing the kind starts
// from the empty item of the new kind, so no date survives the switch.
func (p ItemPatch) Apply(item DateItem) DateItem {
	leaveType := item.LeaveType()
	if p.LeaveType != nil {
		leaveType = *p.LeaveType
	}

	base := item
	if p.Kind != nil && *p.Kind != item.Kind() {
		base = NewItem(*p.Kind, leaveType)
	}

	switch v := base.(type) {
	case FullDay:
		v.Type = leaveType
		if p.From != nil {
			v.From = *p.From
		}
		if p.To != nil {
			v.To = *p.To
		}
		return v
	case HalfDay:
		v.Type = leaveType
		if p.Date != nil {
			v.Date = *p.Date
		}
		if p.Period != nil {
			v.Period = *p.Period
		}
		return v
	}
	return item
}
