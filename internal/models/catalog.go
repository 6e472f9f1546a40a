package models

// User is a registered customer account.
type User struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// MenuItem is a dish offered by a hotel.
type MenuItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DeliveryPerson is the courier assigned to a hotel.
type DeliveryPerson struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	City   string  `json:"city"`
	Charge float64 `json:"charge"`
}

// Hotel is a restaurant in the catalog.
type Hotel struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	Menu           []MenuItem      `json:"menu"`
	DeliveryPerson *DeliveryPerson `json:"delivery_person,omitempty"`
}
