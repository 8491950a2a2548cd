package nationalrail

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	DefaultEndpoint = "https://lite.realtime.nationalrail.co.uk/OpenLDBWS/ldb12.asmx"

	getDepartureBoardAction = "http://thalesgroup.com/RTTI/2012-01-13/ldb/GetDepartureBoard"
	requestTimeout          = 15 * time.Second
)

var ErrFault = errors.New("LDBWS fault")

const departureBoardEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:typ="http://thalesgroup.com/RTTI/2013-11-28/Token/types" xmlns:ldb="http://thalesgroup.com/RTTI/2021-11-01/ldb/">
<soap:Header><typ:AccessToken><typ:TokenValue>%s</typ:TokenValue></typ:AccessToken></soap:Header>
<soap:Body><ldb:GetDepartureBoardRequest><ldb:numRows>%d</ldb:numRows><ldb:crs>%s</ldb:crs></ldb:GetDepartureBoardRequest></soap:Body>
</soap:Envelope>`

// Client talks to the Live Departure Boards Web Service with one access token
type Client struct {
	Endpoint    string
	AccessToken string

	HTTPClient *http.Client
}

func NewClient(endpoint string, accessToken string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		Endpoint:    endpoint,
		AccessToken: accessToken,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func escapeXML(s string) string {
	var buffer bytes.Buffer
	xml.EscapeText(&buffer, []byte(s))

	return buffer.String()
}

// GetDepartureBoard requests the next numRows departures from the station with the given CRS code
func (c *Client) GetDepartureBoard(ctx context.Context, crs string, numRows int) (*StationBoard, error) {
	body := fmt.Sprintf(departureBoardEnvelope, escapeXML(c.AccessToken), numRows, escapeXML(crs))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBufferString(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", getDepartureBoardAction)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var departureBoard departureBoardResponse

	d := xml.NewDecoder(resp.Body)
	d.CharsetReader = charset.NewReaderLabel
	if err := d.Decode(&departureBoard); err != nil {
		return nil, fmt.Errorf("decode departure board (%s): %w", resp.Status, err)
	}

	if departureBoard.Fault != nil {
		return nil, fmt.Errorf("%w: %s", ErrFault, departureBoard.Fault.String)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrFault, resp.Status)
	}

	if departureBoard.StationBoard == nil {
		return nil, fmt.Errorf("%w: response has no station board", ErrFault)
	}

	return departureBoard.StationBoard, nil
}
