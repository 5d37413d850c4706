package model

import "time"

// LegDirection identifies the kind of trip a transport leg covers.
type LegDirection int

const (
	DirectionOutbound LegDirection = iota
	DirectionReturn
	DirectionDayOf
)

// String returns a human-readable representation of the direction.
func (d LegDirection) String() string {
	switch d {
	case DirectionOutbound:
		return "outbound"
	case DirectionReturn:
		return "return"
	case DirectionDayOf:
		return "day-of"
	default:
		return "unknown"
	}
}

// PersonType distinguishes the two kinds of people traveling on a leg.
type PersonType int

const (
	PersonRider PersonType = iota
	PersonStaff
)

// String returns a human-readable representation of the person type.
func (t PersonType) String() string {
	switch t {
	case PersonRider:
		return "rider"
	case PersonStaff:
		return "staff"
	default:
		return "unknown"
	}
}

// Occupant is one person traveling on a leg. Identity is the (id, type)
// pair: the same person id may appear once as rider and once as staff.
type Occupant struct {
	PersonID string     `json:"person_id"`
	Type     PersonType `json:"type"`
}

// Waypoint is a located point in time, used for departures, arrivals and
// intermediate stops.
type Waypoint struct {
	Location string    `json:"location,omitempty"`
	Date     time.Time `json:"date,omitempty"`
}

// Stop is an intermediate halt on a leg with its own boarding/alighting
// list, independent of the leg's occupant list.
type Stop struct {
	ID       string     `json:"id"`
	Waypoint Waypoint   `json:"waypoint"`
	Kind     string     `json:"kind,omitempty"`
	Persons  []Occupant `json:"persons,omitempty"`
}

// TransportLeg is one directional trip segment of an event. DriverID is
// defaulted from the vehicle's designated driver unless DriverChosen marks
// it as an explicit user choice.
type TransportLeg struct {
	ID           string       `json:"id"`
	EventID      string       `json:"event_id"`
	Direction    LegDirection `json:"direction"`
	Departure    Waypoint     `json:"departure"`
	Arrival      Waypoint     `json:"arrival,omitempty"`
	VehicleID    string       `json:"vehicle_id,omitempty"`
	DriverID     string       `json:"driver_id,omitempty"`
	DriverChosen bool         `json:"driver_chosen,omitempty"`
	Occupants    []Occupant   `json:"occupants,omitempty"`
	Stops        []Stop       `json:"stops,omitempty"`
}

// Range returns the day range the leg occupies, from departure to arrival.
// A leg without an arrival date occupies its departure day only.
func (l TransportLeg) Range() DateRange {
	r := DateRange{Start: l.Departure.Date}
	if !l.Arrival.Date.IsZero() {
		r.End = l.Arrival.Date
	}
	return r
}

// HasOccupant reports whether the (person, type) pair rides on the leg.
func (l TransportLeg) HasOccupant(o Occupant) bool {
	for _, cur := range l.Occupants {
		if cur == o {
			return true
		}
	}
	return false
}
