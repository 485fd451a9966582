package render

import (
	"github.com/sirupsen/logrus"
)

// LogSink writes machine events to a logrus logger. Particle moves are far
// too chatty for anything above trace level.
type LogSink struct {
	log *logrus.Entry
}

func NewLogSink(log *logrus.Logger) *LogSink {
	return &LogSink{log: log.WithField("component", "render")}
}

func (l *LogSink) OnParticleMoved(id int, x, y float64) {
	l.log.WithFields(logrus.Fields{"ball": id, "x": x, "y": y}).Trace("moved")
}

func (l *LogSink) OnParticleStateChanged(id int, state BallState) {
	if state == Dimmed {
		l.log.WithField("ball", id).Trace("dimmed")
		return
	}
	l.log.WithField("ball", id).WithField("state", state.String()).Debug("ball state")
}

func (l *LogSink) OnParticleVisibility(id int, visible bool) {
	l.log.WithField("ball", id).WithField("visible", visible).Trace("visibility")
}

func (l *LogSink) OnWindChanged(active bool) {
	l.log.WithField("active", active).Debug("wind")
}

func (l *LogSink) OnShake() { l.log.Debug("shake") }

func (l *LogSink) OnTriggerChanged(enabled bool) {
	l.log.WithField("enabled", enabled).Debug("trigger")
}

func (l *LogSink) OnCenterDisplay(numbers []int, visible bool) {
	l.log.WithField("numbers", numbers).WithField("visible", visible).Debug("center display")
}

func (l *LogSink) OnResultsRevealed(numbers []int) {
	l.log.WithField("numbers", numbers).Info("results revealed")
}

func (l *LogSink) OnResultToken(index, number int) {
	l.log.WithField("index", index).WithField("number", number).Debug("result token")
}
