package models

// Activity is a single extracurricular payment line tied to a student.
type Activity struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstname,omitempty"`
	MiddleName      string  `json:"middlename,omitempty"`
	LastName        string  `json:"lastname,omitempty"`
	AdmissionNumber string  `json:"admission_number"`
	Grade           string  `json:"grade"`
	ActivityID      int64   `json:"activity_id"`
	ActivityName    string  `json:"activity_name"`
	ActivityFee     *Amount `json:"activity_fee,omitempty"`
	AmountPaid      *Amount `json:"amount_paid,omitempty"`
}

// FullName joins the name parts, skipping empty ones.
func (a Activity) FullName() string {
	return joinName(a.FirstName, a.MiddleName, a.LastName)
}

// Paid returns the paid amount, treating an absent value as zero.
func (a Activity) Paid() Amount {
	if a.AmountPaid == nil {
		return 0
	}
	return *a.AmountPaid
}

// Clone returns a copy that shares no pointers with the receiver.
func (a Activity) Clone() Activity {
	out := a
	if a.ActivityFee != nil {
		v := *a.ActivityFee
		out.ActivityFee = &v
	}
	if a.AmountPaid != nil {
		v := *a.AmountPaid
		out.AmountPaid = &v
	}
	return out
}

// ActivityRow is the presentation form of an activity line. Deficit may be
// negative when the student overpaid; activities carry no overpayment field.
type ActivityRow struct {
	Activity
	FullName string `json:"full_name"`
	Fee      Amount `json:"fee"`
	Paid     Amount `json:"paid"`
	Deficit  Amount `json:"deficit"`
}

// StudentActivities is the lookup result for a single admission number.
type StudentActivities struct {
	FirstName       string     `json:"firstname"`
	MiddleName      string     `json:"middlename"`
	LastName        string     `json:"lastname"`
	AdmissionNumber string     `json:"admission_number"`
	Grade           string     `json:"grade"`
	Activities      []Activity `json:"activities,omitempty"`
}

// FullName joins the name parts, skipping empty ones.
func (s StudentActivities) FullName() string {
	return joinName(s.FirstName, s.MiddleName, s.LastName)
}
