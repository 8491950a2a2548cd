package departures

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/morosanmihail/HA-LondonTfL/pkg/nationalrail"
	"github.com/morosanmihail/HA-LondonTfL/pkg/tfl"
	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/rs/zerolog/log"
)

const DefaultDepartureBoardRows = 10

// StationCodeResolver turns the ATCO code TfL uses for a station into the CRS code LDBWS wants
type StationCodeResolver interface {
	AtcoToCrs(ctx context.Context, atco string) (string, error)
}

type DepartureBoardClient interface {
	GetDepartureBoard(ctx context.Context, crs string, numRows int) (*nationalrail.StationBoard, error)
}

// Fetcher gets the raw departures for one stop from whichever upstream its mode uses
type Fetcher struct {
	Config StopConfig
	Mode   ctdf.TransportMode

	TfL          *tfl.Client
	StationCodes StationCodeResolver

	LDBWSEndpoint           string
	NewDepartureBoardClient func(endpoint string, accessToken string) DepartureBoardClient

	Now func() time.Time

	departureBoardClient DepartureBoardClient
}

func NewFetcher(config StopConfig, tflClient *tfl.Client, stationCodes StationCodeResolver, ldbwsEndpoint string) *Fetcher {
	return &Fetcher{
		Config:        config,
		Mode:          ctdf.ResolveTransportMode(config.Method, config.Line),
		TfL:           tflClient,
		StationCodes:  stationCodes,
		LDBWSEndpoint: ldbwsEndpoint,
		NewDepartureBoardClient: func(endpoint string, accessToken string) DepartureBoardClient {
			return nationalrail.NewClient(endpoint, accessToken)
		},
		Now: time.Now,
	}
}

func (f *Fetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}

	return f.Now()
}

// Fetch returns the latest raw departures or one of the package errors describing why it could not
func (f *Fetcher) Fetch(ctx context.Context) ([]ctdf.RawDeparture, error) {
	if f.Config.Method == "" {
		return nil, ErrConfigurationVersion
	}

	if f.Mode.UsesLDBWS() {
		return f.fetchDepartureBoard(ctx)
	}

	return f.fetchTfLArrivals(ctx)
}

func (f *Fetcher) fetchTfLArrivals(ctx context.Context) ([]ctdf.RawDeparture, error) {
	// A fresh token on every request stops caches between us and TfL serving old arrivals
	path := f.Mode.RequestPath(url.PathEscape(f.Config.Line), url.PathEscape(f.Config.Station), uuid.NewString())

	arrivals, err := f.TfL.GetArrivals(ctx, path)
	if errors.Is(err, tfl.ErrInvalidJSON) {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableResponse, err)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkUnreachable, err)
	}

	return arrivals, nil
}

func (f *Fetcher) getDepartureBoardClient() DepartureBoardClient {
	if f.departureBoardClient == nil {
		f.departureBoardClient = f.NewDepartureBoardClient(f.LDBWSEndpoint, f.Config.NationalRailAPIKey)
	}

	return f.departureBoardClient
}

func (f *Fetcher) fetchDepartureBoard(ctx context.Context) ([]ctdf.RawDeparture, error) {
	if f.Config.NationalRailAPIKey == "" {
		return nil, ErrConfigurationIncomplete
	}

	if f.StationCodes == nil {
		return nil, fmt.Errorf("%w: no station code resolver", ErrStationCode)
	}

	crs, err := f.StationCodes.AtcoToCrs(ctx, f.Config.Station)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStationCode, err)
	}

	numRows := DefaultDepartureBoardRows
	if f.Config.Max > numRows {
		numRows = f.Config.Max
	}

	stationBoard, err := f.getDepartureBoardClient().GetDepartureBoard(ctx, crs, numRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLDBWS, err)
	}

	now := f.now()
	var departures []ctdf.RawDeparture

	for _, service := range stationBoard.TrainServices {
		if !operatorMatchesLine(service, f.Config.Line) {
			continue
		}

		scheduledTime, err := ScheduledDepartureTime(service.Scheduled, now)
		if err != nil {
			log.Debug().
				Str("crs", crs).
				Str("service", service.ServiceID).
				Str("std", service.Scheduled).
				Msg("Skipping service with unreadable scheduled time")
			continue
		}

		departures = append(departures, ctdf.RawDeparture{
			"serviceId":                service.ServiceID,
			"stationName":              stationBoard.LocationName,
			"platformName":             service.Platform,
			"destinationName":          service.DestinationName(),
			"lineName":                 service.Operator,
			"operatorCode":             service.OperatorCode,
			"scheduledTimeOfDeparture": scheduledTime.Format(time.RFC3339),
			"scheduledTimeOfArrival":   scheduledTime.Format(time.RFC3339),
			"estimatedTimeOfDeparture": service.Estimated,
		})
	}

	return departures, nil
}

// Lines for national rail stops are either the operator code (SW) or the TfL style operator slug (south-western-railway)
func operatorMatchesLine(service nationalrail.Service, line string) bool {
	return strings.EqualFold(service.OperatorCode, line) || util.Slugify(service.Operator) == util.Slugify(line)
}

// ScheduledDepartureTime puts an "HH:MM" departure on today's date in London.
// Early morning services listed late in the evening are taken to be tomorrow's.
func ScheduledDepartureTime(scheduled string, now time.Time) (time.Time, error) {
	scheduledTimeOnly, err := time.Parse("15:04", scheduled)
	if err != nil {
		return time.Time{}, err
	}

	localNow := now.In(util.LondonLocation())
	scheduledTime := util.AddTimeToDate(localNow, scheduledTimeOnly)

	if strings.HasPrefix(scheduled, "0") && localNow.Hour() > 17 {
		scheduledTime = scheduledTime.AddDate(0, 0, 1)
	}

	return scheduledTime, nil
}
