package models

// Company is an airline or a railway carrier.
type Company struct {
	ID      int64  `json:"id" mapstructure:"id"`
	Name    string `json:"name" mapstructure:"name"`
	Code    string `json:"code,omitempty" mapstructure:"code"`
	LogoURL string `json:"logo_url,omitempty" mapstructure:"logo_url"`
}

type Country struct {
	Name string `json:"name" mapstructure:"name"`
}

type City struct {
	Name    string   `json:"name" mapstructure:"name"`
	Country *Country `json:"country,omitempty" mapstructure:"country"`
}

// Place is an airport or a railway station.
type Place struct {
	Name string `json:"name" mapstructure:"name"`
	Code string `json:"code,omitempty" mapstructure:"code"`
	City *City  `json:"city,omitempty" mapstructure:"city"`
}

// Ticket is a flight or a train ride as shown in the results list.
type Ticket struct {
	ID               int64   `json:"id" mapstructure:"id"`
	FromAirport      *Place  `json:"from_airport,omitempty" mapstructure:"from_airport"`
	ToAirport        *Place  `json:"to_airport,omitempty" mapstructure:"to_airport"`
	FromStation      *Place  `json:"from_station,omitempty" mapstructure:"from_station"`
	ToStation        *Place  `json:"to_station,omitempty" mapstructure:"to_station"`
	FromCity         string  `json:"from_city,omitempty" mapstructure:"from_city"`
	ToCity           string  `json:"to_city,omitempty" mapstructure:"to_city"`
	DepartureTime    string  `json:"departure_time" mapstructure:"departure_time"`
	ArrivalTime      string  `json:"arrival_time" mapstructure:"arrival_time"`
	DepartureDate    string  `json:"departure_date" mapstructure:"departure_date"`
	Duration         string  `json:"duration" mapstructure:"duration"`
	HasTransfer      bool    `json:"has_transfer" mapstructure:"has_transfer"`
	TransferCity     *City   `json:"transfer_city,omitempty" mapstructure:"transfer_city"`
	TransferDuration float64 `json:"transfer_duration,omitempty" mapstructure:"transfer_duration"`

	EconomyPrice   float64 `json:"economy_price,omitempty" mapstructure:"economy_price"`
	BusinessPrice  float64 `json:"business_price,omitempty" mapstructure:"business_price"`
	CoupePrice     float64 `json:"coupe_price,omitempty" mapstructure:"coupe_price"`
	SVPrice        float64 `json:"sv_price,omitempty" mapstructure:"sv_price"`
	PlatzkartPrice float64 `json:"platzkart_price,omitempty" mapstructure:"platzkart_price"`
	SittingPrice   float64 `json:"sitting_price,omitempty" mapstructure:"sitting_price"`
	CurrentPrice   float64 `json:"current_price,omitempty" mapstructure:"current_price"`
	OldPrice       float64 `json:"old_price,omitempty" mapstructure:"old_price"`

	EconomyAvailable   bool `json:"economy_available" mapstructure:"economy_available"`
	BusinessAvailable  bool `json:"business_available" mapstructure:"business_available"`
	CoupeAvailable     bool `json:"coupe_available" mapstructure:"coupe_available"`
	SVAvailable        bool `json:"sv_available" mapstructure:"sv_available"`
	PlatzkartAvailable bool `json:"platzkart_available" mapstructure:"platzkart_available"`
	SittingAvailable   bool `json:"sitting_available" mapstructure:"sitting_available"`

	Airlines  []Company `json:"airlines,omitempty" mapstructure:"airlines"`
	Companies []Company `json:"companies,omitempty" mapstructure:"companies"`
	TrainType string    `json:"train_type,omitempty" mapstructure:"train_type"`
}

// Tour is a hotel package as shown in the results list.
type Tour struct {
	ID            int64   `json:"id" mapstructure:"id"`
	HotelName     string  `json:"hotel_name" mapstructure:"hotel_name"`
	HotelStars    int     `json:"hotel_stars" mapstructure:"hotel_stars"`
	Rating        float64 `json:"rating" mapstructure:"rating"`
	PricePerNight float64 `json:"price_per_night" mapstructure:"price_per_night"`
	FoodIncluded  bool    `json:"food_included" mapstructure:"food_included"`
	PetsAllowed   bool    `json:"pets_allowed" mapstructure:"pets_allowed"`
	Image         string  `json:"image" mapstructure:"image"`
	City          *City   `json:"city,omitempty" mapstructure:"city"`
	Description   string  `json:"description,omitempty" mapstructure:"description"`
}

// SearchResult is a single item of the results list. Exactly one of Ticket
// and Tour is set, matching Type.
type SearchResult struct {
	Type   SearchType `json:"type"`
	Ticket *Ticket    `json:"ticket,omitempty"`
	Tour   *Tour      `json:"tour,omitempty"`
}

// ItemID returns the backend identifier of the wrapped item.
func (r SearchResult) ItemID() int64 {
	switch {
	case r.Ticket != nil:
		return r.Ticket.ID
	case r.Tour != nil:
		return r.Tour.ID
	}
	return 0
}

// ResultPage is the state of one search session's results list.
type ResultPage struct {
	Criteria SearchCriteria `json:"criteria"`
	Location string         `json:"location"`
	Results  []SearchResult `json:"results"`
	Page     int            `json:"page"`
	HasMore  bool           `json:"has_more"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
}

// HotTicket is a promoted ticket on the landing page.
type HotTicket struct {
	ID            int64     `json:"id" mapstructure:"id"`
	FromCity      string    `json:"from_city" mapstructure:"from_city"`
	ToCity        string    `json:"to_city" mapstructure:"to_city"`
	DepartureTime string    `json:"departure_time" mapstructure:"departure_time"`
	ArrivalTime   string    `json:"arrival_time" mapstructure:"arrival_time"`
	CurrentPrice  float64   `json:"current_price" mapstructure:"current_price"`
	OldPrice      float64   `json:"old_price" mapstructure:"old_price"`
	Date          string    `json:"date" mapstructure:"date"`
	Duration      string    `json:"duration" mapstructure:"duration"`
	Transfers     string    `json:"transfers,omitempty" mapstructure:"transfers"`
	TicketType    string    `json:"ticket_type,omitempty" mapstructure:"ticket_type"`
	Airlines      []Company `json:"airlines,omitempty" mapstructure:"airlines"`
	Companies     []Company `json:"companies,omitempty" mapstructure:"companies"`
}

// PopularTour is a promoted tour on the landing page.
type PopularTour struct {
	ID           int64   `json:"id" mapstructure:"id"`
	ImageURL     string  `json:"image_url" mapstructure:"image_url"`
	Rating       float64 `json:"rating" mapstructure:"rating"`
	Country      string  `json:"country" mapstructure:"country"`
	City         string  `json:"city" mapstructure:"city"`
	HotelName    string  `json:"hotel_name" mapstructure:"hotel_name"`
	FoodIncluded bool    `json:"food_included" mapstructure:"food_included"`
	PetsAllowed  bool    `json:"pets_allowed" mapstructure:"pets_allowed"`
	Price        float64 `json:"price" mapstructure:"price"`
}

type TravelIdea struct {
	ID          int64   `json:"id" mapstructure:"id"`
	Name        string  `json:"name" mapstructure:"name"`
	PricePerDay float64 `json:"price_per_day" mapstructure:"price_per_day"`
	ImageURL    string  `json:"image_url" mapstructure:"image_url"`
}
