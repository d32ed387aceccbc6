package models

// Subscriber is a row of the admin dashboard: someone whose plan expires soon.
type Subscriber struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	PlanName     string `json:"planName"`
	ExpiryDate   Date   `json:"expiryDate"`
}

// RechargeRecord is one historical recharge of a subscriber.
type RechargeRecord struct {
	ID           ID      `json:"id"`
	PlanName     string  `json:"planName"`
	RechargeDate Date    `json:"rechargeDate"`
	PaymentMode  string  `json:"paymentMode"`
	Amount       float64 `json:"amount"`
}
