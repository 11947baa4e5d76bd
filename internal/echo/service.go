package echo

import (
	"time"
	"unicode/utf8"
)

type Service interface {
	Echo(req EchoRequest) []EchoResponse
}

type service struct {
	now func() time.Time
}

func NewService() Service {
	return &service{now: time.Now}
}

// Echo returns one item per tag, or a single untagged item
func (s *service) Echo(req EchoRequest) []EchoResponse {
	receivedAt := s.now().UTC()
	length := utf8.RuneCountInString(req.Message)

	if len(req.Tags) == 0 {
		return []EchoResponse{{Message: req.Message, Length: length, ReceivedAt: receivedAt}}
	}

	out := make([]EchoResponse, 0, len(req.Tags))
	for _, tag := range req.Tags {
		out = append(out, EchoResponse{
			Message:    req.Message,
			Tag:        tag,
			Length:     length,
			ReceivedAt: receivedAt,
		})
	}
	return out
}
