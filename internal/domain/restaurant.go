package domain

import "time"

type Restaurant struct {
	ID           int64
	Name         string
	Endorsements []Endorsement
	Tables       []Table
	CreatedAt    time.Time
}

// Endorsement is a tag describing a dietary or cuisine accommodation a
// restaurant offers ("Vegetarian-Friendly", "Gluten Free Options", ...).
type Endorsement struct {
	ID   int64
	Name string
}

type Table struct {
	ID           int64
	RestaurantID int64
	Capacity     int
}
