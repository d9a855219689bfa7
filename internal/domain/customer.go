package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is the account on whose behalf tickets are raised.
type Customer struct {
	ID                    primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	FullName              string               `json:"fullName" bson:"fullName"`
	Email                 string               `json:"email" bson:"email"`
	PasswordHash          string               `json:"-" bson:"password"`
	Gender                string               `json:"gender,omitempty" bson:"gender,omitempty"`
	RoleType              string               `json:"roleType" bson:"roleType"`
	RoleID                primitive.ObjectID   `json:"roleId" bson:"roleId"`
	ContactNo             string               `json:"contactNo" bson:"contactNo"`
	Address               string               `json:"address" bson:"address"`
	City                  string               `json:"city" bson:"city"`
	State                 string               `json:"state" bson:"state"`
	RM                    []primitive.ObjectID `json:"rm" bson:"rm"`
	IsWildCardLoginAccess bool                 `json:"isWildCardLoginAccess" bson:"isWildCardLoginAccess"`
	UserType              string               `json:"userType" bson:"userType"`
	CreatedAt             time.Time            `json:"createdAt" bson:"createdAt"`
}

// CustomerSummary is the projection joined onto tickets.
type CustomerSummary struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	FullName string             `json:"fullName" bson:"fullName"`
	Email    string             `json:"email" bson:"email"`
}
