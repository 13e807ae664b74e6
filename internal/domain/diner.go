package domain

type Diner struct {
	ID                  int64
	Name                string
	DietaryRestrictions []DietaryRestriction
}

// DietaryRestriction is a tag on a diner, matched against restaurant
// endorsements by case-insensitive substring.
type DietaryRestriction struct {
	ID   int64
	Name string
}
