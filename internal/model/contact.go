package model

import "time"

// Services a contact request may ask about
var Services = []string{
	"Intelligent Experience Engineering",
	"Digital Reinvention",
	"FutureCraft Advisory",
	"AI-First Enterprise Shift",
	"AI Maturity Assessment",
	"DAI Labs",
	"Inflecto ValueSphere",
}

// IsService reports whether s is one of Services
func IsService(s string) bool {
	for _, v := range Services {
		if v == s {
			return true
		}
	}
	return false
}

// Contact is a contact-form submission
type Contact struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	PhoneNumber string    `json:"phone_number" bson:"phoneNumber"`
	Service     string    `json:"service" bson:"service"`
	Message     string    `json:"message" bson:"message"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}
