package yield

import (
	"fmt"
	"time"

	"grain/internal/errs"
	"grain/internal/models"
)

// Coefficients is one row of the MLR table: five weather terms plus the intercept
type Coefficients struct {
	Temperature   float64 `yaml:"temperature"`
	DewPoint      float64 `yaml:"dew_point"`
	Precipitation float64 `yaml:"precipitation"`
	WindSpeed     float64 `yaml:"wind_speed"`
	Humidity      float64 `yaml:"humidity"`
	Constant      float64 `yaml:"constant"`
}

// Table holds the coefficients for quarters 1 through 4, in order
type Table [4]Coefficients

// DefaultTable returns the built-in quarterly coefficients
func DefaultTable() Table {
	return Table{
		{Temperature: 8478.474259, DewPoint: -16643.35313, Precipitation: 36502.00765, WindSpeed: -5998.639807, Humidity: -787.357142, Constant: 420307.9461},
		{Temperature: -3120.551847, DewPoint: 9874.219033, Precipitation: 21894.663201, WindSpeed: -4417.908126, Humidity: -512.774390, Constant: 198452.317204},
		{Temperature: 5632.108945, DewPoint: -7741.650382, Precipitation: 14310.285617, WindSpeed: -2896.431570, Humidity: 341.992108, Constant: 152984.771365},
		{Temperature: 2214.837216, DewPoint: 4483.109754, Precipitation: 28765.441903, WindSpeed: -3388.205671, Humidity: -629.518844, Constant: 305617.229481},
	}
}

// Predictor applies the fixed quarterly formulas. It holds no mutable state.
type Predictor struct {
	table Table
}

func NewPredictor(table Table) *Predictor {
	return &Predictor{table: table}
}

// Predict returns the yield in kg/ha for the quarter. Out-of-range weather is not
// rejected and can produce a negative yield.
func (p *Predictor) Predict(quarter int, w models.QuarterlyWeather) (float64, error) {
	if err := ValidateQuarter(quarter); err != nil {
		return 0, err
	}
	c := p.table[quarter-1]
	return c.Temperature*w.Temperature +
		c.DewPoint*w.DewPoint +
		c.Precipitation*w.Precipitation +
		c.WindSpeed*w.WindSpeed +
		c.Humidity*w.Humidity +
		c.Constant, nil
}

func ValidateQuarter(quarter int) error {
	if quarter < 1 || quarter > 4 {
		return errs.New(errs.KindInvalidQuarter, "yield.ValidateQuarter", "quarter must be 1, 2, 3 or 4, got %d", quarter)
	}
	return nil
}

// QuarterToMonthRange returns the first and last calendar month of a quarter
func QuarterToMonthRange(quarter int) (time.Month, time.Month, error) {
	if err := ValidateQuarter(quarter); err != nil {
		return 0, 0, err
	}
	start := time.Month((quarter-1)*3 + 1)
	return start, start + 2, nil
}

// QuarterDateRange returns the first and last day of the quarter in the given year
func QuarterDateRange(year, quarter int) (time.Time, time.Time, error) {
	startMonth, endMonth, err := QuarterToMonthRange(quarter)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, endMonth+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return start, end, nil
}

// QuarterLabel renders a quarter as its month span, e.g. "January - March"
func QuarterLabel(quarter int) string {
	start, end, err := QuarterToMonthRange(quarter)
	if err != nil {
		return fmt.Sprintf("Q%d", quarter)
	}
	return fmt.Sprintf("%s - %s", start, end)
}
