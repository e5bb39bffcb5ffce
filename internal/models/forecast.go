package models

// Forecast represents the daily payload returned by the Open-Meteo forecast and archive APIs
type Forecast struct {
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Timezone         string     `json:"timezone"`
	DailyUnits       DailyUnits `json:"daily_units"`
	Daily            Daily      `json:"daily"`
	GenerationTimeMs float64    `json:"generation_time_ms"`
}

type DailyUnits struct {
	Time                   string `json:"time"`
	Temperature2mMean      string `json:"temperature_2m_mean"`
	DewPoint2mMean         string `json:"dew_point_2m_mean"`
	PrecipitationSum       string `json:"precipitation_sum"`
	WindSpeed10mMax        string `json:"wind_speed_10m_max"`
	RelativeHumidity2mMean string `json:"relative_humidity_2m_mean"`
}

// Daily holds parallel arrays, one entry per day. Missing values decode as nil.
type Daily struct {
	Time                   []string   `json:"time"`
	Temperature2mMean      []*float64 `json:"temperature_2m_mean"`
	DewPoint2mMean         []*float64 `json:"dew_point_2m_mean"`
	PrecipitationSum       []*float64 `json:"precipitation_sum"`
	WindSpeed10mMax        []*float64 `json:"wind_speed_10m_max"`
	RelativeHumidity2mMean []*float64 `json:"relative_humidity_2m_mean"`
}
