package models

// User represents a user of the application. Account creation and credential
// handling live in the platform's identity service; this service only reads users.
type User struct {
	Model
	Fullname      string         `json:"fullname"`
	Username      string         `json:"username" gorm:"uniqueIndex;not null"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	DeviceToken   string         `json:"-"`
	Notifications []Notification `json:"-" gorm:"foreignKey:UserID"`
}

// ChatUser is the trimmed user payload embedded in conversation responses.
type ChatUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

func (u *User) ToChatUser() *ChatUser {
	if u == nil {
		return nil
	}
	return &ChatUser{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
	}
}
