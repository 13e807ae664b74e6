package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/tablebooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s at %s (table %d, reservation %d)\n",
		strings.Join(event.Diners, ", "), event.Type, event.Restaurant, event.TableID, event.ReservationID)
	return nil
}
