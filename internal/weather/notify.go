package weather

import "log"

// LogNotifier writes pipeline events to the standard logger.
type LogNotifier struct{}

func (LogNotifier) SnapshotReady(s WeatherSnapshot) {
	log.Printf("weather: snapshot ready for %s: %.1f°F, wind %s %s",
		s.LocationLabel, s.TemperatureF, s.WindSpeedDisplay, s.WindDirectionLabel)
}

func (LogNotifier) RefreshFailed(err error) {
	log.Printf("weather: refresh failed: %v", err)
}

// FanoutNotifier forwards each event to every wrapped notifier in order.
type FanoutNotifier []Notifier

func (f FanoutNotifier) SnapshotReady(s WeatherSnapshot) {
	for _, n := range f {
		n.SnapshotReady(s)
	}
}

func (f FanoutNotifier) RefreshFailed(err error) {
	for _, n := range f {
		n.RefreshFailed(err)
	}
}
