package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/parking_lot/internal/core/domain"
)

// RateTable holds the hourly tariffs per vehicle class. Trucks are
// deliberately unpriced for now, so they carry no entry here.
type RateTable struct {
	CarBaseHourly              decimal.Decimal
	CarAdditionalHourly        decimal.Decimal
	CarDailyRate               decimal.Decimal
	MotorcycleBaseHourly       decimal.Decimal
	MotorcycleAdditionalHourly decimal.Decimal
}

func DefaultRateTable() RateTable {
	return RateTable{
		CarBaseHourly:              decimal.RequireFromString("10.00"),
		CarAdditionalHourly:        decimal.RequireFromString("5.00"),
		CarDailyRate:               decimal.RequireFromString("50.00"),
		MotorcycleBaseHourly:       decimal.RequireFromString("5.00"),
		MotorcycleAdditionalHourly: decimal.RequireFromString("2.50"),
	}
}

// PriceCalculator computes the amount owed for a ticket at a reference time.
// It is stateless and never fails: unknown classes price to zero.
type PriceCalculator struct {
	rates RateTable
}

func NewPriceCalculator(rates RateTable) *PriceCalculator {
	return &PriceCalculator{rates: rates}
}

func (c *PriceCalculator) Calculate(ticket *domain.Ticket, at time.Time) decimal.Decimal {
	hours := billedHours(ticket.EnteredAt, at)

	switch ticket.Vehicle.Class {
	case domain.ClassCar:
		return c.carPrice(hours)
	case domain.ClassMotorcycle:
		return c.motorcyclePrice(hours)
	default:
		return decimal.Zero
	}
}

// billedHours rounds the elapsed time up to whole hours, charging at least
// one hour even when the reference time precedes or equals the entry.
func billedHours(enteredAt, at time.Time) int64 {
	minutes := int64(at.Sub(enteredAt).Minutes())

	hours := minutes / 60
	if minutes%60 > 0 {
		hours++
	}

	if hours <= 0 {
		hours = 1
	}
	return hours
}

func (c *PriceCalculator) carPrice(hours int64) decimal.Decimal {
	// Past 8 billed hours the flat daily rate wins over the tiered total.
	if hours > 8 {
		return c.rates.CarDailyRate
	}
	return tieredPrice(hours, c.rates.CarBaseHourly, c.rates.CarAdditionalHourly)
}

func (c *PriceCalculator) motorcyclePrice(hours int64) decimal.Decimal {
	return tieredPrice(hours, c.rates.MotorcycleBaseHourly, c.rates.MotorcycleAdditionalHourly)
}

// tieredPrice charges the base rate for the first two hours and the
// additional rate beyond them, rounded half-up to cents.
func tieredPrice(hours int64, base, additional decimal.Decimal) decimal.Decimal {
	if hours <= 2 {
		return base.Mul(decimal.NewFromInt(hours)).Round(2)
	}

	return base.Mul(decimal.NewFromInt(2)).
		Add(additional.Mul(decimal.NewFromInt(hours - 2))).
		Round(2)
}
