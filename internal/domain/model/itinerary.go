package model

// Itinerary is the validated output artifact of one generation job.
// By the time one of these leaves the planner, every activity carries
// numeric coordinates and cost, and Days covers the requested date
// range exactly, one entry per calendar day.
type Itinerary struct {
	Title          string            `json:"title"`
	Destination    string            `json:"destination"`
	Dates          DateRange         `json:"dates"`
	Days           []Day             `json:"days"`
	Accommodation  []LodgingOption   `json:"accommodation,omitempty"`
	Transportation []TransportOption `json:"transportation,omitempty"`
	Budget         *BudgetBreakdown  `json:"budget,omitempty"`
}

type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD, inclusive
	End   string `json:"end"`   // YYYY-MM-DD, inclusive
}

type Day struct {
	Date       string     `json:"date"` // YYYY-MM-DD
	Activities []Activity `json:"activities"`
}

type Activity struct {
	ID          string      `json:"id"`
	Time        string      `json:"time"` // morning | afternoon | evening
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	Cost        float64     `json:"cost"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LodgingOption struct {
	Name          string  `json:"name"`
	Type          string  `json:"type,omitempty"`
	Description   string  `json:"description,omitempty"`
	PricePerNight float64 `json:"pricePerNight"`
}

type TransportOption struct {
	Mode        string  `json:"mode"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// BudgetBreakdown is passed through from the model output. Total is not
// re-derived here even when it disagrees with the sum of the parts.
type BudgetBreakdown struct {
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Transport     float64 `json:"transport"`
	Total         float64 `json:"total"`
}

// ComponentSum returns accommodation+food+activities+transport.
func (b *BudgetBreakdown) ComponentSum() float64 {
	return b.Accommodation + b.Food + b.Activities + b.Transport
}
