package account

import "time"

// User is a parent/guardian account. Children holds student ids only; the
// user does not own the student records' lifecycle, so a stale id is
// possible and tolerated (resolution drops it silently).
type User struct {
	ID                    string    `json:"_id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Password              string    `json:"-"`
	LinkingCode           string    `json:"linkingCode"`
	Children              []string  `json:"children"`
	MobileNumber          string    `json:"mobileNumber"`
	ResidentialAddress    string    `json:"residentialAddress"`
	EducationalBackground string    `json:"educationalBackground"`
	OccupationalArea      string    `json:"occupationalArea"`
	AnnualEducationBudget string    `json:"annualEducationBudget"`
	PreferredFoE          []string  `json:"preferredFoE"`
	Notes                 string    `json:"notes"`
	Avatar                string    `json:"avatar"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
