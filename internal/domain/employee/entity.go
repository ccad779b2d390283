package employee

// Employee is the directory view the attendance engine needs: identity,
// assigned shift and activity flags. Employee CRUD lives elsewhere.
type Employee struct {
	ID         string
	CompanyID  string
	UserID     *string
	FullName   string
	ShiftID    *string
	IsActive   bool
	UserActive bool
}
