package echo

import "time"

type EchoResponse struct {
	Message    string    `json:"message"`
	Tag        string    `json:"tag,omitempty"`
	Length     int       `json:"length"`
	ReceivedAt time.Time `json:"received_at"`
}
