package sales

import "time"

// PaymentStatus is the state of a sale's payment. It moves exactly once
// from PENDING to one of the terminal states and is then frozen.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Sale is a vehicle purchase transaction. PaymentCode is the unique
// handle the payment processor uses to report the outcome; Amount is
// the vehicle price frozen at sale time.
type Sale struct {
	ID            int64         `json:"id"`
	VehicleID     int64         `json:"vehicle_id"`
	BuyerCPF      string        `json:"buyer_cpf"`
	PaymentCode   string        `json:"payment_code"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	Amount        float64       `json:"amount"`
}
