package domain

// Accommodation is the lodging record embedded by value in every day of a
// stay. It has no independent lifecycle; it lives and dies with its owning
// day(s). Days sharing one AccommodationID should carry identical payloads;
// the diff package detects and deduplicates divergence between the copies.
type Accommodation struct {
	Name           string    `json:"name,omitempty"`
	WebsiteURL     string    `json:"websiteUrl,omitempty"`
	GoogleMapsURL  string    `json:"googleMapsUrl,omitempty"`
	Description    string    `json:"description,omitempty"`
	NumberOfNights int       `json:"numberOfNights,omitempty"`
	RoomType       string    `json:"roomType,omitempty"`
	Images         []string  `json:"images,omitempty"`
	Amenities      Amenities `json:"amenities"`
}

// Clone returns a deep copy of the accommodation.
func (a Accommodation) Clone() Accommodation {
	out := a
	out.Images = append([]string(nil), a.Images...)
	out.Amenities.Other = append([]string(nil), a.Amenities.Other...)
	return out
}

// Amenities is the fixed taxonomy of lodging features: one boolean per
// category plus a free-text Other list for anything the taxonomy misses.
// The flag set is fixed; adding a category means adding a field here and a
// row to the diff package's amenity table.
type Amenities struct {
	// Essentials
	Wifi            bool `json:"wifi,omitempty"`
	AirConditioning bool `json:"airConditioning,omitempty"`
	Heating         bool `json:"heating,omitempty"`
	Parking         bool `json:"parking,omitempty"`
	Elevator        bool `json:"elevator,omitempty"`
	Safe            bool `json:"safe,omitempty"`
	NonSmoking      bool `json:"nonSmoking,omitempty"`

	// Room
	TV           bool `json:"tv,omitempty"`
	Minibar      bool `json:"minibar,omitempty"`
	CoffeeMaker  bool `json:"coffeeMaker,omitempty"`
	Fridge       bool `json:"fridge,omitempty"`
	HairDryer    bool `json:"hairDryer,omitempty"`
	Iron         bool `json:"iron,omitempty"`
	Desk         bool `json:"desk,omitempty"`
	Balcony      bool `json:"balcony,omitempty"`
	SeaView      bool `json:"seaView,omitempty"`
	MountainView bool `json:"mountainView,omitempty"`

	// Kitchen & laundry
	Kitchen     bool `json:"kitchen,omitempty"`
	Kitchenette bool `json:"kitchenette,omitempty"`
	Washer      bool `json:"washer,omitempty"`
	Dryer       bool `json:"dryer,omitempty"`

	// Food & drink
	Breakfast   bool `json:"breakfast,omitempty"`
	Restaurant  bool `json:"restaurant,omitempty"`
	Bar         bool `json:"bar,omitempty"`
	RoomService bool `json:"roomService,omitempty"`

	// Wellness & outdoor
	Pool        bool `json:"pool,omitempty"`
	HotTub      bool `json:"hotTub,omitempty"`
	Sauna       bool `json:"sauna,omitempty"`
	Spa         bool `json:"spa,omitempty"`
	Gym         bool `json:"gym,omitempty"`
	Garden      bool `json:"garden,omitempty"`
	Terrace     bool `json:"terrace,omitempty"`
	BBQ         bool `json:"bbq,omitempty"`
	BeachAccess bool `json:"beachAccess,omitempty"`

	// Services & accessibility
	AirportShuttle       bool `json:"airportShuttle,omitempty"`
	DailyHousekeeping    bool `json:"dailyHousekeeping,omitempty"`
	LaundryService       bool `json:"laundryService,omitempty"`
	EVCharging           bool `json:"evCharging,omitempty"`
	PetFriendly          bool `json:"petFriendly,omitempty"`
	FamilyRooms          bool `json:"familyRooms,omitempty"`
	WheelchairAccessible bool `json:"wheelchairAccessible,omitempty"`

	// Other holds free-text extras outside the fixed taxonomy.
	Other []string `json:"other,omitempty"`
}
