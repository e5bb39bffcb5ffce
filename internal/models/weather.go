package models

// WeatherObservation is one day of weather at a location
type WeatherObservation struct {
	Date          string  `json:"date"`          // YYYY-MM-DD
	Temperature   float64 `json:"temperature"`   // °C
	DewPoint      float64 `json:"dewPoint"`      // °C
	Precipitation float64 `json:"precipitation"` // mm/day
	WindSpeed     float64 `json:"windSpeed"`     // km/h
	Humidity      float64 `json:"humidity"`      // percent
}

// QuarterlyWeather is the quarter-representative aggregate fed to the yield formulas.
// Precipitation is the average monthly total in mm.
type QuarterlyWeather struct {
	Temperature   float64 `json:"temperature" yaml:"temperature" db:"temperature"`
	DewPoint      float64 `json:"dewPoint" yaml:"dew_point" db:"dew_point"`
	Precipitation float64 `json:"precipitation" yaml:"precipitation" db:"precipitation"`
	WindSpeed     float64 `json:"windSpeed" yaml:"wind_speed" db:"wind_speed"`
	Humidity      float64 `json:"humidity" yaml:"humidity" db:"humidity"`
}

// Location identifies where an analysis runs
type Location struct {
	ID        int64   `json:"id,omitempty" db:"id"`
	Name      string  `json:"name" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
