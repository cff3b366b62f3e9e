package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/phrase"
)

type options struct {
	logger  *log.Logger
	book    *phrase.Book
	metrics []metrics.Metric
}

type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBook replaces the default phrase book. It must contain the intro and
// promote phrases named in the render config.
func WithBook(b *phrase.Book) Option {
	return func(o *options) { o.book = b }
}

// WithMetric observes every Tick.
func WithMetric(m metrics.Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, m) }
}

func (o *options) setDefaults() {
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.book == nil {
		o.book = phrase.DefaultBook()
	}
}
