package entity

// Company is a purchasing branch.
type Company struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}
