package departures

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/morosanmihail/HA-LondonTfL/pkg/nationalrail"
	"github.com/morosanmihail/HA-LondonTfL/pkg/tfl"
	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTfL struct {
	mutex    sync.Mutex
	requests []*http.Request

	status int
	body   []byte
}

func newFakeTfL(t *testing.T, status int, body []byte) (*fakeTfL, *httptest.Server) {
	fake := &fakeTfL{status: status, body: body}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.mutex.Lock()
		fake.requests = append(fake.requests, r)
		status, body := fake.status, fake.body
		fake.mutex.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	return fake, server
}

func (f *fakeTfL) respond(status int, body []byte) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.status = status
	f.body = body
}

func (f *fakeTfL) hits() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return len(f.requests)
}

func (f *fakeTfL) lastRequest() *http.Request {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.requests[len(f.requests)-1]
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	contents, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return contents
}

type fakeStationCodes struct {
	crs   string
	err   error
	atcos []string
}

func (f *fakeStationCodes) AtcoToCrs(ctx context.Context, atco string) (string, error) {
	f.atcos = append(f.atcos, atco)

	return f.crs, f.err
}

type fakeDepartureBoard struct {
	board *nationalrail.StationBoard
	err   error

	crs     []string
	numRows int
}

func (f *fakeDepartureBoard) GetDepartureBoard(ctx context.Context, crs string, numRows int) (*nationalrail.StationBoard, error) {
	f.crs = append(f.crs, crs)
	f.numRows = numRows

	return f.board, f.err
}

func TestFetcherTfLArrivals(t *testing.T) {
	fake, server := newFakeTfL(t, http.StatusOK, readFixture(t, "underground.json"))

	fetcher := NewFetcher(StopConfig{
		Method:  "tube",
		Line:    "jubilee",
		Station: "940GZZLUSTD",
	}, tfl.NewClient(server.URL, "secret"), nil, "")

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 5)

	request := fake.lastRequest()
	assert.Equal(t, "/line/jubilee/arrivals/940GZZLUSTD", request.URL.Path)
	assert.Equal(t, "secret", request.URL.Query().Get("app_key"))
	assert.Equal(t, "application/json", request.Header.Get("Accept"))

	firstToken := request.URL.Query().Get("test")
	assert.NotEmpty(t, firstToken)

	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, firstToken, fake.lastRequest().URL.Query().Get("test"))
}

func TestFetcherRequestPaths(t *testing.T) {
	tests := []struct {
		name    string
		config  StopConfig
		path    string
		lineIDs string
		modeID  string
	}{
		{
			name:   "bus",
			config: StopConfig{Method: "bus", Line: "241", Station: "490011791W"},
			path:   "/StopPoint/490011791W/arrivals",
			modeID: "bus",
		},
		{
			name:    "thameslink uses the stop point departures even on national rail",
			config:  StopConfig{Method: "national-rail", Line: "thameslink", Station: "910GCTMSLNK"},
			path:    "/StopPoint/910GCTMSLNK/arrivaldepartures",
			lineIDs: "thameslink",
			modeID:  "thameslink",
		},
		{
			name:   "unknown method falls back to line arrivals",
			config: StopConfig{Method: "gondola", Line: "emirates-air-line", Station: "940GZZALGWP"},
			path:   "/line/emirates-air-line/arrivals/940GZZALGWP",
			modeID: "default",
		},
		{
			name:   "station is escaped",
			config: StopConfig{Method: "dlr", Line: "dlr", Station: "Canning Town"},
			path:   "/line/dlr/arrivals/Canning Town",
			modeID: "dlr",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake, server := newFakeTfL(t, http.StatusOK, []byte("[]"))

			fetcher := NewFetcher(tc.config, tfl.NewClient(server.URL, ""), nil, "")
			assert.Equal(t, tc.modeID, fetcher.Mode.ModeID)

			records, err := fetcher.Fetch(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records)

			request := fake.lastRequest()
			assert.Equal(t, tc.path, request.URL.Path)
			assert.Equal(t, tc.lineIDs, request.URL.Query().Get("lineIds"))
			assert.Empty(t, request.URL.Query().Get("app_key"))
		})
	}
}

func TestFetcherTfLErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
		state    string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"oops"}`, ErrNetworkUnreachable, "Cannot reach TfL"},
		{"not found", http.StatusNotFound, `[]`, ErrNetworkUnreachable, "Cannot reach TfL"},
		{"empty body", http.StatusOK, ``, ErrNetworkUnreachable, "Cannot reach TfL"},
		{"not json", http.StatusOK, `<html>Cloudflare</html>`, ErrUnparsableResponse, "Cannot interpret JSON from TfL"},
		{"not a list", http.StatusOK, `{"$type":"Tfl.Api.Presentation.Entities.ApiError"}`, ErrUnparsableResponse, "Cannot interpret JSON from TfL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, server := newFakeTfL(t, tc.status, []byte(tc.body))

			fetcher := NewFetcher(StopConfig{Method: "tube", Line: "jubilee", Station: "940GZZLUSTD"}, tfl.NewClient(server.URL, ""), nil, "")

			_, err := fetcher.Fetch(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			assert.Equal(t, tc.state, StateFromError(err))
		})
	}

	t.Run("unreachable host", func(t *testing.T) {
		_, server := newFakeTfL(t, http.StatusOK, []byte("[]"))
		server.Close()

		fetcher := NewFetcher(StopConfig{Method: "tube", Line: "jubilee", Station: "940GZZLUSTD"}, tfl.NewClient(server.URL, ""), nil, "")

		_, err := fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrNetworkUnreachable)
	})
}

func TestFetcherMissingMethod(t *testing.T) {
	fake, server := newFakeTfL(t, http.StatusOK, []byte("[]"))

	fetcher := NewFetcher(StopConfig{Line: "jubilee", Station: "940GZZLUSTD"}, tfl.NewClient(server.URL, ""), nil, "")

	_, err := fetcher.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrConfigurationVersion)
	assert.Equal(t, "Please recreate this entity to get new behaviour", StateFromError(err))
	assert.Equal(t, 0, fake.hits())
}

func newNationalRailFetcher(config StopConfig, stationCodes StationCodeResolver, board *fakeDepartureBoard) (*Fetcher, *[]string) {
	var tokens []string

	fetcher := NewFetcher(config, nil, stationCodes, "http://ldbws.invalid")
	fetcher.NewDepartureBoardClient = func(endpoint string, accessToken string) DepartureBoardClient {
		tokens = append(tokens, accessToken)
		return board
	}
	fetcher.Now = func() time.Time { return fixtureNow }

	return fetcher, &tokens
}

func sampleStationBoard() *nationalrail.StationBoard {
	return &nationalrail.StationBoard{
		LocationName: "Surbiton",
		Crs:          "SUR",
		TrainServices: []nationalrail.Service{
			{
				ServiceID:    "1",
				Operator:     "South Western Railway",
				OperatorCode: "SW",
				Platform:     "2",
				Scheduled:    "09:12",
				Estimated:    "On time",
				Destination:  []nationalrail.Location{{Name: "London Waterloo", Crs: "WAT"}},
			},
			{
				ServiceID:    "2",
				Operator:     "Great Western Railway",
				OperatorCode: "GW",
				Platform:     "4",
				Scheduled:    "09:14",
				Estimated:    "09:16",
				Destination:  []nationalrail.Location{{Name: "Reading", Crs: "RDG"}},
			},
			{
				ServiceID:    "3",
				Operator:     "South Western Railway",
				OperatorCode: "SW",
				Platform:     "",
				Scheduled:    "09:20",
				Estimated:    "Delayed",
				Destination: []nationalrail.Location{
					{Name: "Hampton Court", Crs: "HMC"},
					{Name: "Guildford", Crs: "GLD"},
				},
			},
			{
				ServiceID:    "4",
				Operator:     "South Western Railway",
				OperatorCode: "SW",
				Scheduled:    "",
			},
		},
	}
}

func TestFetcherNationalRail(t *testing.T) {
	config := StopConfig{
		Method:             "national-rail",
		Line:               "SW",
		Station:            "910GSURBITN",
		NationalRailAPIKey: "token",
		Max:                3,
	}

	stationCodes := &fakeStationCodes{crs: "SUR"}
	board := &fakeDepartureBoard{board: sampleStationBoard()}
	fetcher, tokens := newNationalRailFetcher(config, stationCodes, board)

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"910GSURBITN"}, stationCodes.atcos)
	assert.Equal(t, []string{"SUR"}, board.crs)
	assert.Equal(t, DefaultDepartureBoardRows, board.numRows)

	require.Len(t, records, 2)

	assert.Equal(t, "London Waterloo", records[0].String("destinationName"))
	assert.Equal(t, "Surbiton", records[0].String("stationName"))
	assert.Equal(t, "2", records[0].String("platformName"))
	assert.Equal(t, "SW", records[0].String("operatorCode"))
	assert.Equal(t, "2024-03-01T09:12:00Z", records[0].String("scheduledTimeOfDeparture"))

	assert.Equal(t, "Hampton Court & Guildford", records[1].String("destinationName"))

	expected, ok := records[1].Time("scheduledTimeOfArrival")
	require.True(t, ok)
	assert.True(t, expected.Equal(time.Date(2024, time.March, 1, 9, 20, 0, 0, time.UTC)))

	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"token"}, *tokens)
}

func TestFetcherNationalRailMatchesOperatorSlug(t *testing.T) {
	config := StopConfig{
		Method:             "national-rail",
		Line:               "great-western-railway",
		Station:            "910GSURBITN",
		NationalRailAPIKey: "token",
	}

	fetcher, _ := newNationalRailFetcher(config, &fakeStationCodes{crs: "SUR"}, &fakeDepartureBoard{board: sampleStationBoard()})

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Reading", records[0].String("destinationName"))
}

func TestFetcherNationalRailErrors(t *testing.T) {
	config := StopConfig{
		Method:             "national-rail",
		Line:               "SW",
		Station:            "910GSURBITN",
		NationalRailAPIKey: "token",
	}

	t.Run("missing api key", func(t *testing.T) {
		noKey := config
		noKey.NationalRailAPIKey = ""

		stationCodes := &fakeStationCodes{crs: "SUR"}
		fetcher, tokens := newNationalRailFetcher(noKey, stationCodes, &fakeDepartureBoard{})

		_, err := fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrConfigurationIncomplete)
		assert.Empty(t, *tokens)
		assert.Empty(t, stationCodes.atcos)
	})

	t.Run("station code", func(t *testing.T) {
		board := &fakeDepartureBoard{board: sampleStationBoard()}
		fetcher, _ := newNationalRailFetcher(config, &fakeStationCodes{err: errors.New("no CRS code found")}, board)

		_, err := fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrStationCode)
		assert.Equal(t, "Cannot fetch station code", StateFromError(err))
		assert.Empty(t, board.crs)
	})

	t.Run("no resolver", func(t *testing.T) {
		fetcher, _ := newNationalRailFetcher(config, nil, &fakeDepartureBoard{})

		_, err := fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrStationCode)
	})

	t.Run("departure board", func(t *testing.T) {
		fetcher, _ := newNationalRailFetcher(config, &fakeStationCodes{crs: "SUR"}, &fakeDepartureBoard{err: nationalrail.ErrFault})

		_, err := fetcher.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrLDBWS)
		assert.ErrorIs(t, err, nationalrail.ErrFault)
		assert.Equal(t, "LDBWS API error", StateFromError(err))
	})
}

func TestFetcherNationalRailRequestsAtLeastMax(t *testing.T) {
	config := StopConfig{
		Method:             "national-rail",
		Line:               "SW",
		Station:            "910GSURBITN",
		NationalRailAPIKey: "token",
		Max:                15,
	}

	board := &fakeDepartureBoard{board: &nationalrail.StationBoard{}}
	fetcher, _ := newNationalRailFetcher(config, &fakeStationCodes{crs: "SUR"}, board)

	records, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 15, board.numRows)
}

func TestScheduledDepartureTime(t *testing.T) {
	london := util.LondonLocation()

	tests := []struct {
		name      string
		now       time.Time
		scheduled string
		expected  time.Time
	}{
		{
			name:      "same day",
			now:       time.Date(2024, time.March, 1, 10, 0, 0, 0, london),
			scheduled: "10:25",
			expected:  time.Date(2024, time.March, 1, 10, 25, 0, 0, london),
		},
		{
			name:      "early morning asked in the morning",
			now:       time.Date(2024, time.March, 1, 7, 0, 0, 0, london),
			scheduled: "08:05",
			expected:  time.Date(2024, time.March, 1, 8, 5, 0, 0, london),
		},
		{
			name:      "early morning asked late in the evening",
			now:       time.Date(2024, time.March, 1, 23, 40, 0, 0, london),
			scheduled: "00:15",
			expected:  time.Date(2024, time.March, 2, 0, 15, 0, 0, london),
		},
		{
			name:      "evening service asked in the evening",
			now:       time.Date(2024, time.March, 1, 18, 30, 0, 0, london),
			scheduled: "21:30",
			expected:  time.Date(2024, time.March, 1, 21, 30, 0, 0, london),
		},
		{
			name:      "no roll over before 18:00",
			now:       time.Date(2024, time.March, 1, 17, 59, 0, 0, london),
			scheduled: "05:10",
			expected:  time.Date(2024, time.March, 1, 5, 10, 0, 0, london),
		},
		{
			name:      "uses London time rather than UTC",
			now:       time.Date(2024, time.July, 1, 17, 30, 0, 0, time.UTC),
			scheduled: "05:10",
			expected:  time.Date(2024, time.July, 2, 5, 10, 0, 0, london),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ScheduledDepartureTime(tc.scheduled, tc.now)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(actual), "expected %s, got %s", tc.expected, actual)
		})
	}

	_, err := ScheduledDepartureTime("Cancelled", fixtureNow)
	assert.Error(t, err)
}

func TestFetcherUsesSharedMode(t *testing.T) {
	fetcher := NewFetcher(StopConfig{Method: "tram", Line: "tram", Station: "940GZZCRWMB"}, nil, nil, "")

	assert.Equal(t, ctdf.ResolveTransportMode("tram", "tram"), fetcher.Mode)
	assert.False(t, fetcher.Mode.UsesLDBWS())
}
