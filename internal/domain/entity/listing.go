package entity

// Listing is the read model this service consumes from the shared listing
// store. The listing service owns the full schema; only the fields needed
// to validate orders and render notifications are mapped here.
type Listing struct {
	ID       string
	SellerID string
	Title    string
	Price    float64
	Status   string
}
