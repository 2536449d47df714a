package diff

import "github.com/tripfolio/tripfolio/internal/domain"

// amenityFlags is the fixed, ordered table of boolean amenity categories.
// Detection iterates it in order so conflict output is deterministic.
// The "other" free-text list is compared separately.
var amenityFlags = []struct {
	name string
	get  func(domain.Amenities) bool
}{
	{"wifi", func(a domain.Amenities) bool { return a.Wifi }},
	{"airConditioning", func(a domain.Amenities) bool { return a.AirConditioning }},
	{"heating", func(a domain.Amenities) bool { return a.Heating }},
	{"parking", func(a domain.Amenities) bool { return a.Parking }},
	{"elevator", func(a domain.Amenities) bool { return a.Elevator }},
	{"safe", func(a domain.Amenities) bool { return a.Safe }},
	{"nonSmoking", func(a domain.Amenities) bool { return a.NonSmoking }},
	{"tv", func(a domain.Amenities) bool { return a.TV }},
	{"minibar", func(a domain.Amenities) bool { return a.Minibar }},
	{"coffeeMaker", func(a domain.Amenities) bool { return a.CoffeeMaker }},
	{"fridge", func(a domain.Amenities) bool { return a.Fridge }},
	{"hairDryer", func(a domain.Amenities) bool { return a.HairDryer }},
	{"iron", func(a domain.Amenities) bool { return a.Iron }},
	{"desk", func(a domain.Amenities) bool { return a.Desk }},
	{"balcony", func(a domain.Amenities) bool { return a.Balcony }},
	{"seaView", func(a domain.Amenities) bool { return a.SeaView }},
	{"mountainView", func(a domain.Amenities) bool { return a.MountainView }},
	{"kitchen", func(a domain.Amenities) bool { return a.Kitchen }},
	{"kitchenette", func(a domain.Amenities) bool { return a.Kitchenette }},
	{"washer", func(a domain.Amenities) bool { return a.Washer }},
	{"dryer", func(a domain.Amenities) bool { return a.Dryer }},
	{"breakfast", func(a domain.Amenities) bool { return a.Breakfast }},
	{"restaurant", func(a domain.Amenities) bool { return a.Restaurant }},
	{"bar", func(a domain.Amenities) bool { return a.Bar }},
	{"roomService", func(a domain.Amenities) bool { return a.RoomService }},
	{"pool", func(a domain.Amenities) bool { return a.Pool }},
	{"hotTub", func(a domain.Amenities) bool { return a.HotTub }},
	{"sauna", func(a domain.Amenities) bool { return a.Sauna }},
	{"spa", func(a domain.Amenities) bool { return a.Spa }},
	{"gym", func(a domain.Amenities) bool { return a.Gym }},
	{"garden", func(a domain.Amenities) bool { return a.Garden }},
	{"terrace", func(a domain.Amenities) bool { return a.Terrace }},
	{"bbq", func(a domain.Amenities) bool { return a.BBQ }},
	{"beachAccess", func(a domain.Amenities) bool { return a.BeachAccess }},
	{"airportShuttle", func(a domain.Amenities) bool { return a.AirportShuttle }},
	{"dailyHousekeeping", func(a domain.Amenities) bool { return a.DailyHousekeeping }},
	{"laundryService", func(a domain.Amenities) bool { return a.LaundryService }},
	{"evCharging", func(a domain.Amenities) bool { return a.EVCharging }},
	{"petFriendly", func(a domain.Amenities) bool { return a.PetFriendly }},
	{"familyRooms", func(a domain.Amenities) bool { return a.FamilyRooms }},
	{"wheelchairAccessible", func(a domain.Amenities) bool { return a.WheelchairAccessible }},
}

// setAmenityFlag writes a boolean category by its wire name.
// Returns false for unknown categories.
func setAmenityFlag(a *domain.Amenities, name string, value bool) bool {
	switch name {
	case "wifi":
		a.Wifi = value
	case "airConditioning":
		a.AirConditioning = value
	case "heating":
		a.Heating = value
	case "parking":
		a.Parking = value
	case "elevator":
		a.Elevator = value
	case "safe":
		a.Safe = value
	case "nonSmoking":
		a.NonSmoking = value
	case "tv":
		a.TV = value
	case "minibar":
		a.Minibar = value
	case "coffeeMaker":
		a.CoffeeMaker = value
	case "fridge":
		a.Fridge = value
	case "hairDryer":
		a.HairDryer = value
	case "iron":
		a.Iron = value
	case "desk":
		a.Desk = value
	case "balcony":
		a.Balcony = value
	case "seaView":
		a.SeaView = value
	case "mountainView":
		a.MountainView = value
	case "kitchen":
		a.Kitchen = value
	case "kitchenette":
		a.Kitchenette = value
	case "washer":
		a.Washer = value
	case "dryer":
		a.Dryer = value
	case "breakfast":
		a.Breakfast = value
	case "restaurant":
		a.Restaurant = value
	case "bar":
		a.Bar = value
	case "roomService":
		a.RoomService = value
	case "pool":
		a.Pool = value
	case "hotTub":
		a.HotTub = value
	case "sauna":
		a.Sauna = value
	case "spa":
		a.Spa = value
	case "gym":
		a.Gym = value
	case "garden":
		a.Garden = value
	case "terrace":
		a.Terrace = value
	case "bbq":
		a.BBQ = value
	case "beachAccess":
		a.BeachAccess = value
	case "airportShuttle":
		a.AirportShuttle = value
	case "dailyHousekeeping":
		a.DailyHousekeeping = value
	case "laundryService":
		a.LaundryService = value
	case "evCharging":
		a.EVCharging = value
	case "petFriendly":
		a.PetFriendly = value
	case "familyRooms":
		a.FamilyRooms = value
	case "wheelchairAccessible":
		a.WheelchairAccessible = value
	default:
		return false
	}
	return true
}
