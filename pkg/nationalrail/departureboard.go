package nationalrail

import (
	"encoding/xml"
	"strings"
)

type departureBoardResponse struct {
	XMLName xml.Name

	StationBoard *StationBoard `xml:"Body>GetDepartureBoardResponse>GetStationBoardResult"`
	Fault        *soapFault    `xml:"Body>Fault"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type StationBoard struct {
	GeneratedAt       string `xml:"generatedAt"`
	LocationName      string `xml:"locationName"`
	Crs               string `xml:"crs"`
	PlatformAvailable bool   `xml:"platformAvailable"`

	TrainServices []Service `xml:"trainServices>service"`
}

type Service struct {
	ServiceID string `xml:"serviceID"`

	IsCancelled bool `xml:"isCancelled"`

	Operator     string `xml:"operator"`
	OperatorCode string `xml:"operatorCode"`

	Platform string `xml:"platform"`

	Scheduled string `xml:"std"`
	Estimated string `xml:"etd"`

	Origin      []Location `xml:"origin>location"`
	Destination []Location `xml:"destination>location"`
}

type Location struct {
	Name string `xml:"locationName"`
	Crs  string `xml:"crs"`
	Via  string `xml:"via"`
}

// DestinationName joins the destinations of services that split along the way
func (s Service) DestinationName() string {
	var names []string
	for _, location := range s.Destination {
		names = append(names, location.Name)
	}

	return strings.Join(names, " & ")
}
