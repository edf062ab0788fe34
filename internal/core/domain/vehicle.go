package domain

import (
	"fmt"
	"regexp"
	"strings"
)

type VehicleClass string

const (
	ClassTruck      VehicleClass = "TRUCK"
	ClassCar        VehicleClass = "CAR"
	ClassMotorcycle VehicleClass = "MOTORCYCLE"
)

// Mercosul plate format: three letters, a digit, a letter or digit, two digits.
var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

// Vehicle is an immutable value: it can only be built through NewVehicle,
// so an invalid plate never makes it into a Ticket.
type Vehicle struct {
	Plate string
	Class VehicleClass
}

func NewVehicle(plate string, class VehicleClass) (Vehicle, error) {
	if strings.TrimSpace(plate) == "" {
		return Vehicle{}, &ValidationError{Msg: "plate must not be blank"}
	}

	if !platePattern.MatchString(plate) {
		return Vehicle{}, &ValidationError{Msg: fmt.Sprintf("invalid plate %q", plate)}
	}

	return Vehicle{Plate: plate, Class: class}, nil
}
