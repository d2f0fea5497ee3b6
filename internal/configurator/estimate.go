// Package configurator prices a made-to-measure wardrobe from its outer
// dimensions, the one numeric algorithm of the home-furnishing storefront.
package configurator

import (
	"errors"
	"math"
)

// Pricing constants, in catalog currency.
const (
	panelRatePerSqm = 42.0
	hardwarePerDoor = 35.0
	baseFee         = 120.0
)

// Input bounds match the configurator's slider ranges.
const (
	MinWidth, MaxWidth   = 40.0, 300.0
	MinHeight, MaxHeight = 60.0, 260.0
	MinDepth, MaxDepth   = 30.0, 90.0
	MinDoors, MaxDoors   = 1, 6
)

var ErrOutOfRange = errors.New("dimension out of range")

// Input dimensions are in centimeters.
type Input struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Doors  int     `json:"doors"`
}

func (in Input) validate() error {
	switch {
	case in.Width < MinWidth || in.Width > MaxWidth,
		in.Height < MinHeight || in.Height > MaxHeight,
		in.Depth < MinDepth || in.Depth > MaxDepth,
		in.Doors < MinDoors || in.Doors > MaxDoors:
		return ErrOutOfRange
	}
	return nil
}

// Estimate itemizes the quote: panel cost by surface area, hardware per
// door, flat assembly fee.
type Estimate struct {
	Area     float64 `json:"area"`
	Panels   float64 `json:"panels"`
	Hardware float64 `json:"hardware"`
	BaseFee  float64 `json:"baseFee"`
	Total    int     `json:"total"`
}

// Price computes the surface area of the closed box in m² and derives the
// total, rounded once over the unrounded sum.
func Price(in Input) (Estimate, error) {
	if err := in.validate(); err != nil {
		return Estimate{}, err
	}

	area := 2 * (in.Width*in.Height + in.Width*in.Depth + in.Depth*in.Height) / 10000

	return Estimate{
		Area:     area,
		Panels:   math.Round(area * panelRatePerSqm),
		Hardware: float64(in.Doors) * hardwarePerDoor,
		BaseFee:  baseFee,
		Total:    int(math.Round(area*panelRatePerSqm + float64(in.Doors)*hardwarePerDoor + baseFee)),
	}, nil
}
