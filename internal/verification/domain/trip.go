package domain

import "time"

// VehicleTrip is the unit of presence and delay estimation
type VehicleTrip struct {
	ID                 string     `json:"id"`
	RouteID            string     `json:"route_id"`
	DriverID           *string    `json:"driver_id,omitempty"`
	Status             string     `json:"status"`
	ScheduledDeparture *time.Time `json:"scheduled_departure,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduled_arrival,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// RouteStop is one scheduled stop on a trip's route
type RouteStop struct {
	ID               string     `json:"id"`
	RouteID          string     `json:"route_id"`
	StopOrder        int        `json:"stop_order"`
	Name             string     `json:"name"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	ScheduledArrival *time.Time `json:"scheduled_arrival,omitempty"`
}

// Journey is a rider's personal planned trip. A journey in progress
// makes the rider eligible for delay notifications.
type Journey struct {
	ID               string     `json:"id"`
	RiderID          string     `json:"rider_id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"` // PLANNED | IN_PROGRESS | DELAYED | COMPLETED | CANCELLED
	NotificationTime *time.Time `json:"notification_time,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// InProgress reports whether the journey is currently active
func (j *Journey) InProgress() bool {
	return j.Status == "IN_PROGRESS"
}
