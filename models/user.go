package models

// User profiles are documents keyed by the identity provider's uid.
// Registration happens elsewhere; this service only reads them.
type User struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Mobile string `bson:"mobile,omitempty" json:"mobile,omitempty"`
}
