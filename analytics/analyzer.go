// Package analytics computes aggregate flight-delay statistics over an
// in-memory dataset, memoizing every query through a cache facade.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flightlens/querycache"
)

// DelayField selects which delay column a query aggregates.
type DelayField string

const (
	ArrivalDelay   DelayField = "ARR_DELAY"
	DepartureDelay DelayField = "DEP_DELAY"
)

// AirportField selects which endpoint of a flight a query groups by.
type AirportField string

const (
	Origin      AirportField = "ORIGIN"
	Destination AirportField = "DEST"
)

// Flights arriving within this many minutes of schedule count as on time.
const onTimeThresholdMinutes = 15.0

// Flight is one record of the dataset. How records are loaded and parsed
// is the caller's concern.
type Flight struct {
	Date     time.Time `json:"fl_date"`
	Carrier  string    `json:"op_carrier"`
	Origin   string    `json:"origin"`
	Dest     string    `json:"dest"`
	DepDelay float64   `json:"dep_delay"`
	ArrDelay float64   `json:"arr_delay"`
	Distance float64   `json:"distance"`
	AirTime  float64   `json:"air_time"`
}

func (f Flight) month() int {
	return int(f.Date.Month())
}

func (f Flight) delay(field DelayField) float64 {
	if field == DepartureDelay {
		return f.DepDelay
	}
	return f.ArrDelay
}

func (f Flight) airport(field AirportField) string {
	if field == Destination {
		return f.Dest
	}
	return f.Origin
}

// MonthlyDelayStats aggregates one month's delays.
type MonthlyDelayStats struct {
	ArrDelayMean   float64 `json:"arr_delay_mean"`
	ArrDelayMedian float64 `json:"arr_delay_median"`
	ArrDelayStd    float64 `json:"arr_delay_std"`
	DepDelayMean   float64 `json:"dep_delay_mean"`
	DepDelayMedian float64 `json:"dep_delay_median"`
	DepDelayStd    float64 `json:"dep_delay_std"`
}

// CarrierStats is a comprehensive per-carrier performance summary.
type CarrierStats struct {
	ArrDelayMean     float64 `json:"arr_delay_mean"`
	ArrDelayMedian   float64 `json:"arr_delay_median"`
	ArrDelayStd      float64 `json:"arr_delay_std"`
	FlightCount      int     `json:"flight_count"`
	DepDelayMean     float64 `json:"dep_delay_mean"`
	DepDelayMedian   float64 `json:"dep_delay_median"`
	DepDelayStd      float64 `json:"dep_delay_std"`
	DistanceMean     float64 `json:"distance_mean"`
	DistanceTotal    float64 `json:"distance_total"`
	AirTimeMean      float64 `json:"air_time_mean"`
	OnTimePercentage float64 `json:"on_time_percentage"`
}

// Analyzer runs aggregate queries over a flight dataset. Results are
// memoized by query name and parameters, so repeated calls with the same
// arguments are served from cache.
type Analyzer struct {
	flights []Flight
	memo    *querycache.Memoizer
	logger  *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger injects the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer builds an analyzer over flights, memoizing through memo.
func NewAnalyzer(flights []Flight, memo *querycache.Memoizer, opts ...Option) *Analyzer {
	a := &Analyzer{
		flights: flights,
		memo:    memo,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AverageDelayByCarrier returns the mean delay per carrier, rounded to two
// decimals.
func (a *Analyzer) AverageDelayByCarrier(ctx context.Context, field DelayField) (map[string]float64, error) {
	params := querycache.Params{"delay_type": string(field)}
	return querycache.Execute(ctx, a.memo, "avg_delay_airline", params, 0,
		func(context.Context) (map[string]float64, error) {
			a.logger.Debug("computing average delay per carrier", zap.String("delay_type", string(field)))
			byCarrier := make(map[string][]float64)
			for _, f := range a.flights {
				byCarrier[f.Carrier] = append(byCarrier[f.Carrier], f.delay(field))
			}
			out := make(map[string]float64, len(byCarrier))
			for carrier, delays := range byCarrier {
				out[carrier] = round2(mean(delays))
			}
			return out, nil
		})
}

// FlightsByAirport returns the flight count per airport, grouped by origin
// or destination.
func (a *Analyzer) FlightsByAirport(ctx context.Context, field AirportField) (map[string]int, error) {
	params := querycache.Params{"airport_type": string(field)}
	return querycache.Execute(ctx, a.memo, "flights_airport", params, 0,
		func(context.Context) (map[string]int, error) {
			a.logger.Debug("computing flights per airport", zap.String("airport_type", string(field)))
			out := make(map[string]int)
			for _, f := range a.flights {
				out[f.airport(field)]++
			}
			return out, nil
		})
}

// DelayStatsByMonth returns mean, median and standard deviation of arrival
// and departure delays for each month present in the dataset.
func (a *Analyzer) DelayStatsByMonth(ctx context.Context) (map[int]MonthlyDelayStats, error) {
	return querycache.Execute(ctx, a.memo, "delay_stats_month", nil, 0,
		func(context.Context) (map[int]MonthlyDelayStats, error) {
			a.logger.Debug("computing monthly delay statistics")
			arr := make(map[int][]float64)
			dep := make(map[int][]float64)
			for _, f := range a.flights {
				m := f.month()
				arr[m] = append(arr[m], f.ArrDelay)
				dep[m] = append(dep[m], f.DepDelay)
			}
			out := make(map[int]MonthlyDelayStats, len(arr))
			for m := range arr {
				out[m] = MonthlyDelayStats{
					ArrDelayMean:   round2(mean(arr[m])),
					ArrDelayMedian: round2(median(arr[m])),
					ArrDelayStd:    round2(stddev(arr[m])),
					DepDelayMean:   round2(mean(dep[m])),
					DepDelayMedian: round2(median(dep[m])),
					DepDelayStd:    round2(stddev(dep[m])),
				}
			}
			return out, nil
		})
}

// CarrierPerformance returns a comprehensive per-carrier summary including
// on-time percentage (arrival delay within 15 minutes).
func (a *Analyzer) CarrierPerformance(ctx context.Context) (map[string]CarrierStats, error) {
	return querycache.Execute(ctx, a.memo, "airline_performance_summary", nil, 0,
		func(context.Context) (map[string]CarrierStats, error) {
			a.logger.Debug("computing carrier performance summary")
			grouped := make(map[string][]Flight)
			for _, f := range a.flights {
				grouped[f.Carrier] = append(grouped[f.Carrier], f)
			}
			out := make(map[string]CarrierStats, len(grouped))
			for carrier, flights := range grouped {
				arr := make([]float64, 0, len(flights))
				dep := make([]float64, 0, len(flights))
				dist := make([]float64, 0, len(flights))
				air := make([]float64, 0, len(flights))
				onTime := 0
				for _, f := range flights {
					arr = append(arr, f.ArrDelay)
					dep = append(dep, f.DepDelay)
					dist = append(dist, f.Distance)
					air = append(air, f.AirTime)
					if f.ArrDelay <= onTimeThresholdMinutes {
						onTime++
					}
				}
				out[carrier] = CarrierStats{
					ArrDelayMean:     round2(mean(arr)),
					ArrDelayMedian:   round2(median(arr)),
					ArrDelayStd:      round2(stddev(arr)),
					FlightCount:      len(flights),
					DepDelayMean:     round2(mean(dep)),
					DepDelayMedian:   round2(median(dep)),
					DepDelayStd:      round2(stddev(dep)),
					DistanceMean:     round2(mean(dist)),
					DistanceTotal:    round2(sum(dist)),
					AirTimeMean:      round2(mean(air)),
					OnTimePercentage: round2(float64(onTime) / float64(len(flights)) * 100),
				}
			}
			return out, nil
		})
}
