package dto

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	FullName              string   `json:"fullName"`
	Email                 string   `json:"email"`
	Password              string   `json:"password"`
	Gender                string   `json:"gender"`
	RoleType              string   `json:"roleType"`
	RoleID                string   `json:"roleId"`
	ContactNo             string   `json:"contactNo"`
	Address               string   `json:"address"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	UserType              string   `json:"userType"`
	RM                    []string `json:"rm"`
	IsWildCardLoginAccess bool     `json:"isWildCardLoginAccess"`
}
