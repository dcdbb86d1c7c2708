package events

// Event types delivered on per-customer channels.
const (
	EventVisitCreated = "visit:created"
)

// VisitCreatedPayload is pushed to the vehicle owner after a visit commits.
type VisitCreatedPayload struct {
	Type         string `json:"type"`
	VisitID      string `json:"visitId"`
	VehicleLabel string `json:"vehicleLabel"`
	CenterName   string `json:"centerName"`
	CenterType   string `json:"centerType"`
	Cost         int64  `json:"cost"`
	Cashback     int64  `json:"cashback"`
	CashbackUsed int64  `json:"cashbackUsed"`
	Odometer     *int   `json:"odometer,omitempty"`
	Description  string `json:"description"`
}
