package student

// Student is a child/ward record. It is created by administrative import,
// independent of any parent account; parents attach later by presenting the
// student's linking code.
type Student struct {
	ID                string       `json:"_id"`
	Name              string       `json:"name"`
	Age               int          `json:"age"`
	SchoolName        string       `json:"schoolName"`
	Class             string       `json:"class"`
	Grade             int          `json:"grade"`
	LinkingCode       string       `json:"linkingCode"`
	Parents           []string     `json:"parents"`
	ImageURL          string       `json:"imageURL"`
	RecentEmotion     Emotion      `json:"recentEmotion"`
	Interests         []Interest   `json:"interests"`
	RecentPerformance []TermResult `json:"recentPerformance"`
	Subjects          []Subject    `json:"subjects"`
	Institutions      []Shortlist  `json:"institutions"`
}

// Emotion is a recent emotion survey tally.
type Emotion struct {
	ExtraSad   int `json:"ExtraSad"`
	Sad        int `json:"Sad"`
	Neutral    int `json:"Neutral"`
	Happy      int `json:"Happy"`
	ExtraHappy int `json:"ExtraHappy"`
}

// Interest is one field-of-study interest.
type Interest struct {
	ID   string `json:"_id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// TermResult is one term of comparative performance numbers.
type TermResult struct {
	Term    string  `json:"Term"`
	Student float64 `json:"Student"`
	Course1 float64 `json:"Course1"`
	Course2 float64 `json:"Course2"`
	Course3 float64 `json:"Course3"`
}

// Subject carries box-plot statistics for one subject.
type Subject struct {
	Name   string  `json:"name"`
	Mark   float64 `json:"mark"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Shortlist pairs an institution id with the course ids of interest there.
// Both sides are resolved by the catalog when a populated view is needed.
type Shortlist struct {
	Institution string   `json:"institution"`
	Courses     []string `json:"courses"`
}
