package appeals

// Coordinates is a WGS84 point resolved from a postcode.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
