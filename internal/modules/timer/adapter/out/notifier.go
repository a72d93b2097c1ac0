package out

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	timerout "pomocoin/internal/modules/timer/port/out"
)

// LogNotifier records completions in the log.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) timerout.Notifier {
	return LogNotifier{log: log}
}

func (n LogNotifier) Notify(_ context.Context, title, body string) error {
	n.log.WithField("body", body).Info(title)
	return nil
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	w io.Writer
}

func NewBellNotifier(w io.Writer) timerout.Notifier {
	return BellNotifier{w: w}
}

func (n BellNotifier) Notify(context.Context, string, string) error {
	if _, err := fmt.Fprint(n.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// NoopNotifier is used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string) error { return nil }

// FanoutNotifier delivers to every sink and joins their errors.
type FanoutNotifier []timerout.Notifier

func (f FanoutNotifier) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
