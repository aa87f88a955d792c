package models

// Pet describes the animal an announcement is about
type Pet struct {
	Model
	Name        string `json:"name" binding:"required" conform:"trim"`
	PetType     string `json:"pet_type" binding:"required" conform:"trim"`
	Breed       string `json:"breed" conform:"trim"`
	Color       string `json:"color" conform:"trim"`
	Description string `json:"description" gorm:"type:text" conform:"trim"`
}

const (
	PetTypeDog   = "dog"
	PetTypeCat   = "cat"
	PetTypeOther = "other"
)
