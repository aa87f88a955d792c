package models

// Location holds the coordinates an announcement was filed at
type Location struct {
	Model
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address" conform:"trim"`
}
